package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/app/profiles"
	"github.com/smartwave-hq/cards-api/internal/domain"
)

// --- employee profile provisioning ---

func (a *API) adminListProfiles(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	ps, err := a.Profiles.ListProfiles(r.Context(), includeInactive)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]profileView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProfileView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) adminCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body createEmployeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, created, err := a.Profiles.CreateEmployee(r.Context(), profiles.CreateEmployeeInput{
		Profile: body.toInput(),
		Subject: body.Subject,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeCreatedView{
		Profile:           newProfileView(p),
		TemporaryPassword: created.TemporaryPassword,
	})
}

func (a *API) adminGetProfile(w http.ResponseWriter, r *http.Request) {
	id := domain.ProfileID(chi.URLParam(r, "id"))
	p, err := a.Profiles.GetProfile(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(p))
}

func (a *API) adminPatchProfile(w http.ResponseWriter, r *http.Request) {
	id := domain.ProfileID(chi.URLParam(r, "id"))

	var body patchProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := a.Profiles.UpdateProfile(r.Context(), id, body.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(p))
}

func (a *API) adminDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := domain.ProfileID(chi.URLParam(r, "id"))
	if err := a.Profiles.DeleteProfile(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- pass management ---

func (a *API) adminListPasses(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Passes.ListActive(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassViews(ps, true))
}

func (a *API) adminListMyPasses(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	ps, err := a.Passes.ListMine(r.Context(), domain.SubjectID(ident.Subject))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassViews(ps, true))
}

func (a *API) adminCreatePass(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var body createPassBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := a.Passes.CreatePass(r.Context(), domain.SubjectID(ident.Subject), body.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPassView(p, true))
}

func (a *API) adminGetPass(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	id := domain.PassID(chi.URLParam(r, "id"))

	p, err := a.Passes.GetPass(r.Context(), passes.Viewer{
		Subject: domain.SubjectID(ident.Subject),
		Admin:   true,
	}, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassView(p, true))
}

func (a *API) adminPatchPass(w http.ResponseWriter, r *http.Request) {
	id := domain.PassID(chi.URLParam(r, "id"))

	var body patchPassBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := a.Passes.UpdatePass(r.Context(), id, body.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassView(p, true))
}

func (a *API) adminActivatePass(w http.ResponseWriter, r *http.Request) {
	id := domain.PassID(chi.URLParam(r, "id"))
	p, err := a.Passes.ActivatePass(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassView(p, true))
}

func (a *API) adminDeletePass(w http.ResponseWriter, r *http.Request) {
	id := domain.PassID(chi.URLParam(r, "id"))
	if err := a.Passes.DeletePass(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
