package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// --- public profile surface ---

func (a *API) getPublicProfile(w http.ResponseWriter, r *http.Request) {
	shorturl := domain.Shorturl(chi.URLParam(r, "shorturl"))
	p, err := a.Profiles.GetPublicProfile(r.Context(), shorturl)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPublicProfileView(p))
}

// --- self-service profile surface ---

func (a *API) getMyProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())
	p, err := a.Profiles.GetMyProfile(r.Context(), domain.SubjectID(id.Subject))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(p))
}

func (a *API) createMyProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var body createProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := a.Profiles.CreateMyProfile(r.Context(), domain.SubjectID(id.Subject), body.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProfileView(p))
}

func (a *API) patchMyProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var body patchProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	p, err := a.Profiles.UpdateMyProfile(r.Context(), domain.SubjectID(id.Subject), body.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(p))
}
