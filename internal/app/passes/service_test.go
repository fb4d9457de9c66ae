package passes

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/smartwave-hq/cards-api/internal/adapters/memory/clock"
	mempassrepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/passrepo"
	"github.com/smartwave-hq/cards-api/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	return NewService(mempassrepo.NewRepo(), clk), clk
}

func wantAppErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatalf("want *Error, got %v", err)
	}
	if appErr.Status != status || appErr.Code != code {
		t.Fatalf("want %d/%s, got %d/%s", status, code, appErr.Status, appErr.Code)
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestCreatePass_StartsAsDraft(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	p, err := svc.CreatePass(context.Background(), "admin-1", CreatePassInput{
		Name: "  Launch   Party ",
		Type: domain.PassTypeEvent,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != domain.PassStatusDraft {
		t.Fatalf("status=%q", p.Status)
	}
	if p.Name != "Launch Party" {
		t.Fatalf("name not normalized: %q", p.Name)
	}
	if p.CreatorSubject != "admin-1" {
		t.Fatalf("creator=%q", p.CreatorSubject)
	}
}

func TestCreatePass_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "   ", Type: domain.PassTypeEvent})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "X", Type: "membership"})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	start := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.CreatePass(ctx, "admin-1", CreatePassInput{
		Name: "Party", Type: domain.PassTypeEvent, DateStart: &start, DateEnd: &end,
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.CreatePass(ctx, "admin-1", CreatePassInput{
		Name: "Party", Type: domain.PassTypeEvent,
		Location: &LocationInput{Name: "HQ", Latitude: floatPtr(95), Longitude: floatPtr(0)},
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	// Coordinates must come as a pair.
	_, err = svc.CreatePass(ctx, "admin-1", CreatePassInput{
		Name: "Party", Type: domain.PassTypeEvent,
		Location: &LocationInput{Name: "HQ", Latitude: floatPtr(37.8)},
	})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestGetPass_DraftVisibility(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "Launch", Type: domain.PassTypeEvent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Anonymous and unrelated viewers get 404, never 403.
	_, err = svc.GetPass(ctx, Viewer{}, draft.ID)
	wantAppErr(t, err, 404, "PASS_NOT_FOUND")
	_, err = svc.GetPass(ctx, Viewer{Subject: "someone-else"}, draft.ID)
	wantAppErr(t, err, 404, "PASS_NOT_FOUND")

	// The creator and admins see the draft.
	if _, err := svc.GetPass(ctx, Viewer{Subject: "admin-1"}, draft.ID); err != nil {
		t.Fatalf("creator get: %v", err)
	}
	if _, err := svc.GetPass(ctx, Viewer{Subject: "other", Admin: true}, draft.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestActivatePass(t *testing.T) {
	t.Parallel()
	svc, clk := newTestService(t)
	ctx := context.Background()

	draft, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "Launch", Type: domain.PassTypeEvent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("draft leaked into active listing: %+v", active)
	}

	clk.Advance(time.Minute)
	p, err := svc.ActivatePass(ctx, draft.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if p.Status != domain.PassStatusActive {
		t.Fatalf("status=%q", p.Status)
	}
	if !p.UpdatedAt.After(draft.UpdatedAt) {
		t.Fatalf("updatedAt not advanced: %v", p.UpdatedAt)
	}

	// Idempotent: a second activation changes nothing.
	clk.Advance(time.Minute)
	again, err := svc.ActivatePass(ctx, draft.ID)
	if err != nil {
		t.Fatalf("re-activate: %v", err)
	}
	if !again.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("no-op activation touched updatedAt: %v != %v", again.UpdatedAt, p.UpdatedAt)
	}

	active, err = svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != draft.ID {
		t.Fatalf("active=%+v", active)
	}
}

func TestListMine_IncludesDrafts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "Mine", Type: domain.PassTypeAccess}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreatePass(ctx, "admin-2", CreatePassInput{Name: "Theirs", Type: domain.PassTypeEvent}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.ListMine(ctx, "admin-1")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Mine" || mine[0].Status != domain.PassStatusDraft {
		t.Fatalf("mine=%+v", mine)
	}
}

func TestUpdatePass_PatchSemantics(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{
		Name: "Party", Type: domain.PassTypeEvent, Description: "annual",
		Location: &LocationInput{Name: "HQ", Latitude: floatPtr(37.8), Longitude: floatPtr(-122.3)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdatePass(ctx, created.ID, UpdatePassInput{
		Description: Null[string](),
		Location:    Some(&LocationPatch{Name: Some("Annex")}),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "" {
		t.Fatalf("description not cleared: %q", updated.Description)
	}
	if updated.Location == nil || updated.Location.Name != "Annex" {
		t.Fatalf("location=%+v", updated.Location)
	}
	if updated.Location.Latitude == nil || *updated.Location.Latitude != 37.8 {
		t.Fatalf("coordinates lost on partial location patch: %+v", updated.Location)
	}

	// Null location clears it entirely.
	updated, err = svc.UpdatePass(ctx, created.ID, UpdatePassInput{Location: Null[*LocationPatch]()})
	if err != nil {
		t.Fatalf("clear location: %v", err)
	}
	if updated.Location != nil {
		t.Fatalf("location should be cleared: %+v", updated.Location)
	}
}

func TestUpdatePass_ClearCoordinates(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{
		Name: "Party", Type: domain.PassTypeEvent,
		Location: &LocationInput{Name: "HQ", Latitude: floatPtr(37.8), Longitude: floatPtr(-122.3)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdatePass(ctx, created.ID, UpdatePassInput{
		Location: Some(&LocationPatch{ClearCoordinates: true}),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location == nil || updated.Location.Name != "HQ" {
		t.Fatalf("location name lost: %+v", updated.Location)
	}
	if updated.Location.Latitude != nil || updated.Location.Longitude != nil {
		t.Fatalf("coordinates not cleared: %+v", updated.Location)
	}
}

func TestUpdatePass_NameCannotBeNull(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "Party", Type: domain.PassTypeEvent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.UpdatePass(ctx, created.ID, UpdatePassInput{Name: Null[string]()})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestDeletePass(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePass(ctx, "admin-1", CreatePassInput{Name: "Temp", Type: domain.PassTypeEvent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeletePass(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	wantAppErr(t, svc.DeletePass(ctx, created.ID), 404, "PASS_NOT_FOUND")
	_, err = svc.GetPass(ctx, Viewer{Admin: true}, created.ID)
	wantAppErr(t, err, 404, "PASS_NOT_FOUND")
}
