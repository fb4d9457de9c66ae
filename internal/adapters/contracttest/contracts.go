// Package contracttest holds behavioral contract suites shared by every
// adapter implementation of the outbound ports. Memory and postgres (and
// redis, for the cache) adapters must pass the same suites.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartwave-hq/cards-api/internal/domain"
	artifactcacheport "github.com/smartwave-hq/cards-api/internal/ports/out/artifactcache"
	passrepoport "github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
	profilerepoport "github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

type CleanupFunc = func()

type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type PassRepoFactory func(t *testing.T) (passrepoport.Repository, CleanupFunc)
type ArtifactCacheFactory func(t *testing.T) (artifactcacheport.Cache, CleanupFunc)

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.ProfileID(uuid.NewString())
	sub := domain.SubjectID("sub-a")
	a := domain.Profile{
		ID:        aID,
		Subject:   sub,
		FirstName: "Alice",
		LastName:  "Johnson",
		WorkEmail: "alice@example.com",
		Shorturl:  "alice-j",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetBySubject(ctx, sub); err != nil {
		t.Fatalf("GetBySubject: %v", err)
	}
	got, err := repo.GetByShorturl(ctx, "alice-j")
	if err != nil {
		t.Fatalf("GetByShorturl: %v", err)
	}
	if got.ID != aID {
		t.Fatalf("GetByShorturl returned wrong profile: %v", got.ID)
	}

	// Work-email lookup is case-insensitive.
	got, err = repo.GetByWorkEmail(ctx, "ALICE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetByWorkEmail: %v", err)
	}
	if got.ID != aID {
		t.Fatalf("GetByWorkEmail returned wrong profile: %v", got.ID)
	}
	if _, err := repo.GetByWorkEmail(ctx, "nobody@example.com"); err != profilerepoport.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown work email, got %v", err)
	}

	// Subject uniqueness.
	if err := repo.Create(ctx, domain.Profile{
		ID:        domain.ProfileID(uuid.NewString()),
		Subject:   sub,
		FirstName: "Alice",
		LastName:  "Two",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err == nil {
		t.Fatalf("expected subject uniqueness error")
	}

	// Shorturl uniqueness.
	if err := repo.Create(ctx, domain.Profile{
		ID:        domain.ProfileID(uuid.NewString()),
		FirstName: "Bob",
		LastName:  "Shorturl",
		Shorturl:  "alice-j",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err == nil {
		t.Fatalf("expected shorturl uniqueness error")
	}

	// Inactive profiles are excluded from List unless requested.
	bID := domain.ProfileID(uuid.NewString())
	if err := repo.Create(ctx, domain.Profile{
		ID:        bID,
		FirstName: "Bob",
		LastName:  "Baker",
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	active, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	for _, p := range active {
		if p.ID == bID {
			t.Fatalf("inactive profile leaked into active listing")
		}
	}
	all, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != len(active)+1 {
		t.Fatalf("expected %d profiles in full listing, got %d", len(active)+1, len(all))
	}

	// Update moves the shorturl index.
	a.Shorturl = "alice-johnson"
	a.Title = "CTO"
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.GetByShorturl(ctx, "alice-j"); err != profilerepoport.ErrNotFound {
		t.Fatalf("old shorturl should be released, got err=%v", err)
	}
	got, err = repo.GetByShorturl(ctx, "alice-johnson")
	if err != nil || got.Title != "CTO" {
		t.Fatalf("GetByShorturl after update: %+v, %v", got, err)
	}

	// Delete removes every index entry.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != profilerepoport.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetBySubject(ctx, sub); err != profilerepoport.ErrNotFound {
		t.Fatalf("expected subject unbound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, aID); err != profilerepoport.ErrNotFound {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func RunPassRepo(t *testing.T, newRepo PassRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	creator := domain.SubjectID("sub-admin")
	draftID := domain.PassID(uuid.NewString())
	lat, lng := 37.8044, -122.2712
	draft := domain.Pass{
		ID:             draftID,
		Name:           "Launch Party",
		Description:    "Company launch event",
		Type:           domain.PassTypeEvent,
		Category:       "corporate",
		Status:         domain.PassStatusDraft,
		Location:       &domain.Location{Name: "Oakland HQ", Latitude: &lat, Longitude: &lng},
		DateStart:      timePtr(now.Add(24 * time.Hour)),
		DateEnd:        timePtr(now.Add(30 * time.Hour)),
		CreatorSubject: creator,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Create(ctx, draft); err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	if err := repo.Create(ctx, draft); err != passrepoport.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	activeID := domain.PassID(uuid.NewString())
	active := domain.Pass{
		ID:             activeID,
		Name:           "Door Access",
		Type:           domain.PassTypeAccess,
		Status:         domain.PassStatusActive,
		CreatorSubject: creator,
		CreatedAt:      now.Add(time.Minute),
		UpdatedAt:      now.Add(time.Minute),
	}
	if err := repo.Create(ctx, active); err != nil {
		t.Fatalf("Create active: %v", err)
	}

	// Draft passes must not appear in the active listing.
	activeList, err := repo.ListByStatus(ctx, domain.PassStatusActive)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(activeList) != 1 || activeList[0].ID != activeID {
		t.Fatalf("unexpected active listing: %+v", activeList)
	}

	// The creator's listing includes drafts, newest first.
	mine, err := repo.ListByCreator(ctx, creator)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != activeID || mine[1].ID != draftID {
		t.Fatalf("unexpected creator listing: %+v", mine)
	}

	got, err := repo.GetByID(ctx, draftID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Location == nil || got.Location.Name != "Oakland HQ" || got.Location.Latitude == nil {
		t.Fatalf("location not persisted: %+v", got.Location)
	}
	if got.DateStart == nil || !got.DateStart.Equal(*draft.DateStart) {
		t.Fatalf("dateStart not persisted: %+v", got.DateStart)
	}

	// Save replaces the record.
	got.Status = domain.PassStatusActive
	got.UpdatedAt = now.Add(2 * time.Minute)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := repo.GetByID(ctx, draftID)
	if err != nil || saved.Status != domain.PassStatusActive {
		t.Fatalf("Save did not persist: %+v, %v", saved, err)
	}

	// Hard delete, no tombstone.
	if err := repo.Delete(ctx, draftID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, draftID); err != passrepoport.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Save(ctx, draft); err != passrepoport.ErrNotFound {
		t.Fatalf("expected ErrNotFound saving deleted pass, got %v", err)
	}
}

func RunArtifactCache(t *testing.T, newCache ArtifactCacheFactory) {
	t.Helper()
	ctx := context.Background()

	cache, cleanup := newCache(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := artifactcacheport.Key("ab12cd34")
	if _, ok, err := cache.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss on empty cache, ok=%v err=%v", ok, err)
	}

	a := artifactcacheport.Artifact{
		ContentType: "image/png",
		Body:        []byte{0x89, 'P', 'N', 'G'},
		Meta:        map[string]string{"qrLevel": "low"},
	}
	if err := cache.Put(ctx, key, a, time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if got.ContentType != "image/png" || string(got.Body) != string(a.Body) {
		t.Fatalf("unexpected artifact: %+v", got)
	}
	if got.Meta["qrLevel"] != "low" {
		t.Fatalf("meta not round-tripped: %+v", got.Meta)
	}

	// Overwrite semantics.
	b := artifactcacheport.Artifact{ContentType: "text/vcard", Body: []byte("BEGIN:VCARD")}
	if err := cache.Put(ctx, key, b, time.Minute); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = cache.Get(ctx, key)
	if err != nil || !ok || got.ContentType != "text/vcard" {
		t.Fatalf("expected overwritten artifact, got ok=%v err=%v %+v", ok, err, got)
	}

	// Caller mutations must not leak into the cache.
	got.Body[0] = 'X'
	again, ok, err := cache.Get(ctx, key)
	if err != nil || !ok || string(again.Body) != "BEGIN:VCARD" {
		t.Fatalf("cache entry was mutated through a returned artifact: %q", again.Body)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
