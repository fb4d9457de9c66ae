package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestPasses_DraftsHiddenUntilActivated(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	admin := e.mint("admin-1", []string{"admin"})

	rec := e.do(t, http.MethodPost, "/api/admin/passes", admin, `{"name":"Launch Party","type":"event","category":"corporate"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created passView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != "draft" {
		t.Fatalf("new pass must start as draft, got %q", created.Status)
	}

	// Draft invisible on the public surface.
	rec = e.do(t, http.MethodGet, "/api/passes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d", rec.Code)
	}
	var listing []passView
	_ = json.Unmarshal(rec.Body.Bytes(), &listing)
	if len(listing) != 0 {
		t.Fatalf("draft leaked into public listing: %+v", listing)
	}
	if rec = e.do(t, http.MethodGet, "/api/passes/"+created.ID, "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("public draft detail status=%d", rec.Code)
	}

	// Activate, then it is public.
	if rec = e.do(t, http.MethodPost, "/api/admin/passes/"+created.ID+"/activate", admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("activate status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = e.do(t, http.MethodGet, "/api/passes", "", "")
	listing = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &listing)
	if len(listing) != 1 || listing[0].ID != created.ID || listing[0].Status != "active" {
		t.Fatalf("activated pass missing from public listing: %+v", listing)
	}

	// Activation is idempotent.
	if rec = e.do(t, http.MethodPost, "/api/admin/passes/"+created.ID+"/activate", admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("re-activate status=%d", rec.Code)
	}
}

func TestPasses_CreatorSeesOwnDrafts(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	admin := e.mint("admin-1", []string{"admin"})

	if rec := e.do(t, http.MethodPost, "/api/admin/passes", admin, `{"name":"Door Access","type":"access"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec := e.do(t, http.MethodGet, "/api/admin/passes/mine", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("mine status=%d body=%s", rec.Code, rec.Body.String())
	}
	var mine []passView
	_ = json.Unmarshal(rec.Body.Bytes(), &mine)
	if len(mine) != 1 || mine[0].Status != "draft" {
		t.Fatalf("creator listing should include drafts: %+v", mine)
	}
}

func TestPasses_ValidationErrors(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	admin := e.mint("admin-1", []string{"admin"})

	rec := e.do(t, http.MethodPost, "/api/admin/passes", admin, `{"name":"X","type":"membership"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad type status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/admin/passes", admin,
		`{"name":"Party","type":"event","dateStart":"2026-09-02T18:00:00Z","dateEnd":"2026-09-01T18:00:00Z"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad dates status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/admin/passes", admin,
		`{"name":"Party","type":"event","location":{"name":"HQ","latitude":95.0,"longitude":0.0}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad latitude status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPasses_PatchLocationNullClears(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	admin := e.mint("admin-1", []string{"admin"})

	rec := e.do(t, http.MethodPost, "/api/admin/passes", admin,
		`{"name":"Party","type":"event","location":{"name":"HQ","latitude":37.8,"longitude":-122.3}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created passView
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Location == nil || created.Location.Name != "HQ" {
		t.Fatalf("location not set: %+v", created)
	}

	rec = e.do(t, http.MethodPatch, "/api/admin/passes/"+created.ID, admin, `{"location":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	var patched passView
	_ = json.Unmarshal(rec.Body.Bytes(), &patched)
	if patched.Location != nil {
		t.Fatalf("location should be cleared: %+v", patched.Location)
	}
}

func TestPasses_DeleteIsHard(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	admin := e.mint("admin-1", []string{"admin"})

	rec := e.do(t, http.MethodPost, "/api/admin/passes", admin, `{"name":"Temp","type":"event"}`)
	var created passView
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	if rec = e.do(t, http.MethodDelete, "/api/admin/passes/"+created.ID, admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rec.Code)
	}
	if rec = e.do(t, http.MethodGet, "/api/admin/passes/"+created.ID, admin, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", rec.Code)
	}
	if rec = e.do(t, http.MethodDelete, "/api/admin/passes/"+created.ID, admin, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status=%d", rec.Code)
	}
}
