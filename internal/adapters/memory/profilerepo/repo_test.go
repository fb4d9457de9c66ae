package profilerepo

import (
	"context"
	"testing"
	"time"

	"github.com/smartwave-hq/cards-api/internal/domain"
	profilerepoport "github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

func TestList_OrderedByFullName(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()
	now := time.Unix(100, 0).UTC()

	for _, p := range []domain.Profile{
		{ID: "p-2", FirstName: "Carol", LastName: "Zimmer", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "p-1", FirstName: "Aaron", LastName: "Banks", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "p-3", FirstName: "bella", LastName: "Cruz", IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", p.ID, err)
		}
	}

	ps, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	gotOrder := []string{}
	for _, p := range ps {
		gotOrder = append(gotOrder, string(p.ID))
	}
	want := []string{"p-1", "p-3", "p-2"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("unexpected order: %v, want %v", gotOrder, want)
		}
	}
}

func TestUpdate_ClearingShorturlReleasesIt(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()
	now := time.Unix(100, 0).UTC()

	p := domain.Profile{ID: "p-1", FirstName: "Jane", LastName: "Doe", Shorturl: "jane", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Shorturl = ""
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.GetByShorturl(ctx, "jane"); err != profilerepoport.ErrNotFound {
		t.Fatalf("expected released shorturl, got %v", err)
	}

	// Another profile can claim it now.
	q := domain.Profile{ID: "p-2", FirstName: "John", LastName: "Roe", Shorturl: "jane", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, q); err != nil {
		t.Fatalf("Create q: %v", err)
	}
}
