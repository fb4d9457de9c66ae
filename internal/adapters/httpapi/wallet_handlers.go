package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/walletsigner"
)

func (a *API) walletProfileArtifact(w http.ResponseWriter, r *http.Request) {
	platform := walletsigner.Platform(chi.URLParam(r, "platform"))
	shorturl := domain.Shorturl(chi.URLParam(r, "shorturl"))

	artifact, err := a.Wallet.IssueForProfile(r.Context(), platform, shorturl)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeWalletArtifact(w, artifact)
}

func (a *API) walletPassArtifact(w http.ResponseWriter, r *http.Request) {
	platform := walletsigner.Platform(chi.URLParam(r, "platform"))
	id := domain.PassID(chi.URLParam(r, "id"))

	artifact, err := a.Wallet.IssueForPass(r.Context(), platform, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeWalletArtifact(w, artifact)
}

// walletIssue serves the query-parameter form: exactly one of passId or
// shorturl selects the record.
func (a *API) walletIssue(w http.ResponseWriter, r *http.Request) {
	platform := walletsigner.Platform(chi.URLParam(r, "platform"))
	passID := r.URL.Query().Get("passId")
	shorturl := r.URL.Query().Get("shorturl")

	if (passID == "") == (shorturl == "") {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"provide exactly one of passId or shorturl", map[string]any{
				"passId":   "pass identifier",
				"shorturl": "profile shorturl",
			})
		return
	}

	var (
		artifact walletsigner.Artifact
		err      error
	)
	if passID != "" {
		artifact, err = a.Wallet.IssueForPass(r.Context(), platform, domain.PassID(passID))
	} else {
		artifact, err = a.Wallet.IssueForProfile(r.Context(), platform, domain.Shorturl(shorturl))
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeWalletArtifact(w, artifact)
}

func writeWalletArtifact(w http.ResponseWriter, a walletsigner.Artifact) {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Body)
}
