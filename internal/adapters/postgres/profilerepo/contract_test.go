package profilerepo

import (
	"testing"

	"github.com/smartwave-hq/cards-api/internal/adapters/contracttest"
	"github.com/smartwave-hq/cards-api/internal/adapters/postgres/testutil"
	profilerepoport "github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

func TestContract_PostgresProfileRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunProfileRepo(t, func(t *testing.T) (profilerepoport.Repository, func()) {
		t.Helper()
		testutil.TruncateTables(t, pool, "profiles")
		return NewRepo(pool), nil
	})
}
