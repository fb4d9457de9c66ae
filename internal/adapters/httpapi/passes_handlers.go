package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/domain"
)

func (a *API) listActivePasses(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Passes.ListActive(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassViews(ps, false))
}

// getPass serves the public pass detail. Without an authenticated identity the
// viewer is anonymous, so drafts resolve to 404.
func (a *API) getPass(w http.ResponseWriter, r *http.Request) {
	id := domain.PassID(chi.URLParam(r, "id"))

	viewer := passes.Viewer{}
	if ident, ok := IdentityFromContext(r.Context()); ok {
		viewer = passes.Viewer{Subject: domain.SubjectID(ident.Subject), Admin: ident.IsAdmin()}
	}

	p, err := a.Passes.GetPass(r.Context(), viewer, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPassView(p, false))
}
