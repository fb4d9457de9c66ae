package passrepo

import (
	"testing"

	"github.com/smartwave-hq/cards-api/internal/adapters/contracttest"
	passrepoport "github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
)

func TestContract_MemoryPassRepo(t *testing.T) {
	contracttest.RunPassRepo(t, func(t *testing.T) (passrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
