package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smartwave-hq/cards-api/internal/app/cards"
	"github.com/smartwave-hq/cards-api/internal/card"
	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/qr"
)

func (a *API) getVCard(w http.ResponseWriter, r *http.Request) {
	shorturl := domain.Shorturl(chi.URLParam(r, "shorturl"))
	text, err := a.Cards.VCard(r.Context(), shorturl)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(shorturl)+`.vcf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (a *API) getQR(w http.ResponseWriter, r *http.Request) {
	shorturl := domain.Shorturl(chi.URLParam(r, "shorturl"))

	req := cards.QRRequest{}
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 2048 {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid size", map[string]any{"size": "must be an integer in [64, 2048]"})
			return
		}
		req.Size = n
	}
	if v := r.URL.Query().Get("level"); v != "" {
		lvl, err := qr.ParseLevel(v)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid level", map[string]any{"level": err.Error()})
			return
		}
		req.Level = lvl
	}
	switch v := r.URL.Query().Get("payload"); v {
	case "":
	case string(cards.PayloadVCard), string(cards.PayloadShorturl):
		req.Payload = cards.PayloadKind(v)
	default:
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid payload", map[string]any{"payload": `must be "vcard" or "shorturl"`})
		return
	}

	res, err := a.Cards.QR(r.Context(), shorturl, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-QR-Level", string(res.Level))
	w.Header().Set("X-QR-Payload", string(res.Payload))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

func (a *API) getCardFace(w http.ResponseWriter, r *http.Request) {
	shorturl := domain.Shorturl(chi.URLParam(r, "shorturl"))

	req := cards.FaceRequest{}
	if v := r.URL.Query().Get("face"); v != "" {
		face, err := card.ParseFace(v)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid face", map[string]any{"face": err.Error()})
			return
		}
		req.Face = face
	}
	if v := r.URL.Query().Get("theme"); v != "" {
		theme, err := card.ThemeByName(v)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid theme", map[string]any{"theme": err.Error()})
			return
		}
		req.Theme = theme
	}

	res, err := a.Cards.RenderFace(r.Context(), shorturl, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}
