package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/smartwave-hq/cards-api/internal/adapters/memory/clock"
	memprofilerepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/profilerepo"
)

func newTestService(t *testing.T) (*Service, *memprofilerepo.Repo, *memclock.ManualClock) {
	t.Helper()
	repo := memprofilerepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	return NewService(repo, clk), repo, clk
}

func wantAppErr(t *testing.T, err error, status int, code string) *Error {
	t.Helper()
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatalf("want *Error, got %v", err)
	}
	if appErr.Status != status || appErr.Code != code {
		t.Fatalf("want %d/%s, got %d/%s", status, code, appErr.Status, appErr.Code)
	}
	return appErr
}

func TestCreateMyProfile_ThenGet(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{
		FirstName: "  Jane ",
		LastName:  "van  der  Berg",
		WorkEmail: "jane@acme.test",
		Shorturl:  "jane",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FirstName != "Jane" || created.LastName != "van der Berg" {
		t.Fatalf("names not normalized: %q %q", created.FirstName, created.LastName)
	}
	if !created.IsActive {
		t.Fatal("new profiles must start active")
	}
	if created.CreatedAt != time.Unix(1000, 0).UTC() {
		t.Fatalf("createdAt=%v", created.CreatedAt)
	}

	got, err := svc.GetMyProfile(ctx, "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Subject != "sub-1" {
		t.Fatalf("got=%+v", got)
	}
}

func TestCreateMyProfile_DuplicateSubject_409(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Other", LastName: "Name"})
	wantAppErr(t, err, 409, "PROFILE_ALREADY_EXISTS")
}

func TestGetMyProfile_NotProvisioned_404(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.GetMyProfile(context.Background(), "sub-unknown")
	wantAppErr(t, err, 404, "PROFILE_NOT_PROVISIONED")
}

func TestCreateProfile_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{Title: "CTO"})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe", WorkEmail: "not-an-email"})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe", Shorturl: "NO CAPS"})
	wantAppErr(t, err, 422, "VALIDATION_ERROR")
}

func TestCreateProfile_WorkEmailUniqueness(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{
		FirstName: "Jane", LastName: "Doe", WorkEmail: "jane@acme.test",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Case-insensitive collision.
	_, err := svc.CreateMyProfile(ctx, "sub-2", CreateProfileInput{
		FirstName: "John", LastName: "Doe", WorkEmail: "JANE@ACME.TEST",
	})
	wantAppErr(t, err, 409, "EMAIL_ALREADY_IN_USE")

	// Keeping one's own email is not a collision.
	if _, err := svc.UpdateMyProfile(ctx, "sub-1", UpdateProfileInput{
		WorkEmail: Some("jane@acme.test"),
	}); err != nil {
		t.Fatalf("update with own email: %v", err)
	}
}

func TestCreateProfile_ShorturlTaken_409(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{
		FirstName: "Jane", LastName: "Doe", Shorturl: "jane",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateMyProfile(ctx, "sub-2", CreateProfileInput{
		FirstName: "John", LastName: "Doe", Shorturl: "jane",
	})
	wantAppErr(t, err, 409, "SHORTURL_ALREADY_IN_USE")
}

func TestUpdateMyProfile_PatchSemantics(t *testing.T) {
	t.Parallel()
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{
		FirstName: "Jane", LastName: "Doe", Title: "CTO",
		Phones: &PhonesPatch{Mobile: Some("+1 555 0100")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clk.Advance(time.Minute)
	updated, err := svc.UpdateMyProfile(ctx, "sub-1", UpdateProfileInput{
		Title:  Null[string](),
		Phones: Some(PhonesPatch{Work: Some("+1 555 0200")}),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "" {
		t.Fatalf("title not cleared: %q", updated.Title)
	}
	if updated.FirstName != "Jane" {
		t.Fatalf("unspecified field changed: %q", updated.FirstName)
	}
	if updated.Phones.Mobile != "+1 555 0100" || updated.Phones.Work != "+1 555 0200" {
		t.Fatalf("phones=%+v", updated.Phones)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updatedAt not advanced: %v", updated.UpdatedAt)
	}
}

func TestUpdateMyProfile_CannotToggleActivation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateMyProfile(ctx, "sub-1", UpdateProfileInput{IsActive: Some(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsActive {
		t.Fatal("self-service update deactivated the profile")
	}
}

func TestAdminUpdate_CanToggleActivation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe", Shorturl: "jane"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateProfile(ctx, created.ID, UpdateProfileInput{IsActive: Some(false)})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.IsActive {
		t.Fatal("admin update did not deactivate")
	}

	// The public surface now hides the profile.
	_, err = svc.GetPublicProfile(ctx, "jane")
	wantAppErr(t, err, 404, "PROFILE_NOT_FOUND")
}

func TestGetPublicProfile(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe", Shorturl: "jane"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := svc.GetPublicProfile(ctx, "jane")
	if err != nil {
		t.Fatalf("public get: %v", err)
	}
	if p.FullName() != "Jane Doe" {
		t.Fatalf("fullName=%q", p.FullName())
	}

	_, err = svc.GetPublicProfile(ctx, "nobody")
	wantAppErr(t, err, 404, "PROFILE_NOT_FOUND")
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, created, err := svc.CreateEmployee(ctx, CreateEmployeeInput{
		Profile: CreateProfileInput{FirstName: "Jane", LastName: "Doe"},
		Subject: " sub-emp-1 ",
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if p.Subject != "sub-emp-1" {
		t.Fatalf("subject=%q", p.Subject)
	}
	if created.TemporaryPassword == "" {
		t.Fatal("temporary password missing")
	}
	if created.ProfileID != string(p.ID) {
		t.Fatalf("profileID=%q", created.ProfileID)
	}

	// The bound subject can now self-serve.
	if _, err := svc.GetMyProfile(ctx, "sub-emp-1"); err != nil {
		t.Fatalf("get as employee: %v", err)
	}

	// A second profile for the same subject is rejected.
	_, _, err = svc.CreateEmployee(ctx, CreateEmployeeInput{
		Profile: CreateProfileInput{FirstName: "Other", LastName: "Name"},
		Subject: "sub-emp-1",
	})
	wantAppErr(t, err, 409, "PROFILE_ALREADY_EXISTS")
}

func TestCreateEmployee_UnboundSubjectAllowed(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	p, created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Profile: CreateProfileInput{FirstName: "Jane", LastName: "Doe"},
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if p.Subject != "" {
		t.Fatalf("subject=%q", p.Subject)
	}
	if created.TemporaryPassword == "" {
		t.Fatal("temporary password missing")
	}
}

func TestDeleteProfile(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteProfile(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeleteProfile(ctx, created.ID)
	wantAppErr(t, err, 404, "PROFILE_NOT_FOUND")
}

func TestListProfiles_IncludeInactive(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateMyProfile(ctx, "sub-1", CreateProfileInput{FirstName: "Alice", LastName: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateMyProfile(ctx, "sub-2", CreateProfileInput{FirstName: "Bob", LastName: "B"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{IsActive: Some(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.ListProfiles(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].FirstName != "Bob" {
		t.Fatalf("active=%+v", active)
	}

	all, err := svc.ListProfiles(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all=%d", len(all))
	}
}
