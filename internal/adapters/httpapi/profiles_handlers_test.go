package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	memartifactcache "github.com/smartwave-hq/cards-api/internal/adapters/memory/artifactcache"
	memclock "github.com/smartwave-hq/cards-api/internal/adapters/memory/clock"
	mempassrepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/passrepo"
	memprofilerepo "github.com/smartwave-hq/cards-api/internal/adapters/memory/profilerepo"
	"github.com/smartwave-hq/cards-api/internal/app/cards"
	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/app/profiles"
	"github.com/smartwave-hq/cards-api/internal/card"
	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/platform/auth/jwks_testutil"
	"github.com/smartwave-hq/cards-api/internal/platform/auth/jwtverifier"
	"github.com/smartwave-hq/cards-api/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type testEnv struct {
	handler     http.Handler
	profileRepo *memprofilerepo.Repo
	passRepo    *mempassrepo.Repo
	mint        func(sub string, roles []string) string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)
	setKeys([]jwks_testutil.Keypair{kp})

	jwtCfg := config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksSrv.URL,
		ClockSkew:              0,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: time.Second,
		HTTPTimeout:            2 * time.Second,
	}
	authNow := time.Unix(1700000000, 0)
	v := jwtverifier.NewWithOptions(jwtCfg, nil, fixedClock{t: authNow})

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	profileRepo := memprofilerepo.NewRepo()
	passRepo := mempassrepo.NewRepo()

	renderer, err := card.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	api := &API{
		Profiles: profiles.NewService(profileRepo, clk),
		Passes:   passes.NewService(passRepo, clk),
		Cards:    cards.NewService(profileRepo, renderer, memartifactcache.NewCache(), "https://cards.example.com"),
	}
	h := NewRouter(api, RouterOptions{Auth: NewAuthMiddleware(v)})

	mint := func(sub string, roles []string) string {
		jwt, err := jwks_testutil.MintRS256JWT(kp, jwks_testutil.MintOptions{
			Iss: jwtCfg.Issuer, Aud: jwtCfg.Audience, Sub: sub, Roles: roles,
			Now: authNow, ExpDelta: 10 * time.Minute,
		})
		if err != nil {
			t.Fatalf("MintRS256JWT: %v", err)
		}
		return jwt
	}

	return &testEnv{handler: h, profileRepo: profileRepo, passRepo: passRepo, mint: mint}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error envelope: %v (body=%s)", err, rec.Body.String())
	}
	return er.Error.Code
}

func seedProfile(t *testing.T, e *testEnv, p domain.Profile) {
	t.Helper()
	now := time.Unix(100, 0).UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	if err := e.profileRepo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestGetMyProfile_NotProvisioned_404(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/me/profile", e.mint("sub-1", nil), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "PROFILE_NOT_PROVISIONED" {
		t.Fatalf("code=%q", code)
	}
}

func TestCreateThenGetMyProfile(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	token := e.mint("sub-1", nil)

	body := `{"firstName":"Jane","lastName":"Doe","title":"CEO","company":"Acme","workEmail":"jane@acme.com","shorturl":"jane-doe"}`
	rec := e.do(t, http.MethodPost, "/api/me/profile", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/api/me/profile", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", rec.Code, rec.Body.String())
	}
	var view profileView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.FullName != "Jane Doe" || view.Shorturl != "jane-doe" || !view.IsActive {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestPatchMyProfile_NullClearsField(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	token := e.mint("sub-1", nil)

	create := `{"firstName":"Jane","lastName":"Doe","title":"CEO"}`
	if rec := e.do(t, http.MethodPost, "/api/me/profile", token, create); rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec := e.do(t, http.MethodPatch, "/api/me/profile", token, `{"title":null,"company":"Initech"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	var view profileView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Title != "" || view.Company != "Initech" {
		t.Fatalf("patch semantics broken: %+v", view)
	}
}

func TestPatchMyProfile_CannotToggleActivation(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	token := e.mint("sub-1", nil)

	if rec := e.do(t, http.MethodPost, "/api/me/profile", token, `{"firstName":"Jane","lastName":"Doe"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rec.Code)
	}
	rec := e.do(t, http.MethodPatch, "/api/me/profile", token, `{"isActive":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	var view profileView
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if !view.IsActive {
		t.Fatalf("self-service must not deactivate a profile")
	}
}

func TestGetPublicProfile_InactiveIs404(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "11111111-1111-1111-1111-111111111111", FirstName: "Gone", LastName: "Person",
		Shorturl: "gone", IsActive: false,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/gone", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetPublicProfile_SanitizedView(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "22222222-2222-2222-2222-222222222222", Subject: "sub-jane",
		FirstName: "Jane", LastName: "Doe",
		WorkEmail: "jane@acme.com", PersonalEmail: "jane@home.example",
		Shorturl: "jane", IsActive: true,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/jane", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "jane@home.example") {
		t.Fatalf("personal email leaked into public view: %s", body)
	}
	if strings.Contains(body, "sub-jane") {
		t.Fatalf("subject leaked into public view: %s", body)
	}
	if !strings.Contains(body, "jane@acme.com") {
		t.Fatalf("work email missing from public view: %s", body)
	}
}

func TestGetVCard_ContentTypeAndBody(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "33333333-3333-3333-3333-333333333333",
		FirstName: "Jane", LastName: "Doe", Title: "CEO", Company: "Acme",
		Shorturl: "jane", IsActive: true,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/jane/vcard", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vcard") {
		t.Fatalf("content type=%q", ct)
	}
	if !strings.Contains(rec.Body.String(), "FN:Jane Doe\r\n") {
		t.Fatalf("vcard body missing FN line: %q", rec.Body.String())
	}
}

func TestGetQR_ReturnsPNG(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "44444444-4444-4444-4444-444444444444",
		FirstName: "Jane", LastName: "Doe",
		Shorturl: "jane", IsActive: true,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/jane/qr?size=256&level=quartile", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type=%q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a PNG")
	}
}

func TestGetQR_InvalidLevel_422(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "55555555-5555-5555-5555-555555555555",
		FirstName: "Jane", LastName: "Doe",
		Shorturl: "jane", IsActive: true,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/jane/qr?level=ultra", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetCardFace_BackIncludesQR(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	seedProfile(t, e, domain.Profile{
		ID: "66666666-6666-6666-6666-666666666666",
		FirstName: "Jane", LastName: "Doe", Title: "CEO", Company: "Acme",
		Shorturl: "jane", IsActive: true,
	})

	rec := e.do(t, http.MethodGet, "/api/profiles/jane/card?face=back&theme=theme_3", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a PNG")
	}
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/admin/employee-profiles", e.mint("sub-1", nil), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/api/admin/employee-profiles", e.mint("sub-1", []string{"admin"}), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminCreateEmployee_ReturnsTemporaryPassword(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	body := `{"firstName":"New","lastName":"Hire","workEmail":"new.hire@acme.com","subject":"sub-new"}`
	rec := e.do(t, http.MethodPost, "/api/admin/employee-profiles", e.mint("admin-1", []string{"admin"}), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created employeeCreatedView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TemporaryPassword == "" {
		t.Fatalf("expected a temporary password")
	}
	if created.Profile.Subject != "sub-new" {
		t.Fatalf("subject not bound: %+v", created.Profile)
	}
}

func TestAdminCreateEmployee_InvalidEmailRejectedOnDecode(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	body := `{"firstName":"New","lastName":"Hire","workEmail":"not-an-email"}`
	rec := e.do(t, http.MethodPost, "/api/admin/employee-profiles", e.mint("admin-1", []string{"admin"}), body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUnauthenticated_401(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/me/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != "UNAUTHORIZED" {
		t.Fatalf("code=%q", code)
	}
}
