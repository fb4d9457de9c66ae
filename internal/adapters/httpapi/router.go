// Package httpapi is the HTTP adapter: request decoding, identity handling
// and route wiring. All business rules live in the app services.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smartwave-hq/cards-api/internal/app/cards"
	"github.com/smartwave-hq/cards-api/internal/app/passes"
	"github.com/smartwave-hq/cards-api/internal/app/profiles"
	"github.com/smartwave-hq/cards-api/internal/app/wallet"
)

// API bundles the app services the handlers delegate to. Wallet may be nil;
// wallet routes are then not mounted.
type API struct {
	Profiles *profiles.Service
	Passes   *passes.Service
	Cards    *cards.Service
	Wallet   *wallet.Service
}

type RouterOptions struct {
	// Auth establishes request identities for the authenticated route groups.
	Auth func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router.
//
// Route groups:
// - public: health, profile card surfaces, active pass listing, wallet issuance
// - authenticated: self-service profile
// - admin: employee provisioning and pass management
func NewRouter(api *API, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public card surfaces.
		r.Get("/profiles/{shorturl}", api.getPublicProfile)
		r.Get("/profiles/{shorturl}/vcard", api.getVCard)
		r.Get("/profiles/{shorturl}/qr", api.getQR)
		r.Get("/profiles/{shorturl}/card", api.getCardFace)

		r.Get("/passes", api.listActivePasses)
		r.Get("/passes/{id}", api.getPass)

		if api.Wallet != nil {
			r.Get("/wallet/{platform}", api.walletIssue)
			r.Post("/wallet/{platform}", api.walletIssue)
			r.Get("/wallet/{platform}/profiles/{shorturl}", api.walletProfileArtifact)
			r.Get("/wallet/{platform}/passes/{id}", api.walletPassArtifact)
		}

		// Self-service.
		r.Group(func(r chi.Router) {
			r.Use(opts.Auth)
			r.Get("/me/profile", api.getMyProfile)
			r.Post("/me/profile", api.createMyProfile)
			r.Patch("/me/profile", api.patchMyProfile)
		})

		// Admin provisioning and pass management.
		r.Group(func(r chi.Router) {
			r.Use(opts.Auth)
			r.Use(RequireAdmin)

			r.Get("/admin/employee-profiles", api.adminListProfiles)
			r.Post("/admin/employee-profiles", api.adminCreateEmployee)
			r.Get("/admin/employee-profiles/{id}", api.adminGetProfile)
			r.Patch("/admin/employee-profiles/{id}", api.adminPatchProfile)
			r.Delete("/admin/employee-profiles/{id}", api.adminDeleteProfile)

			r.Get("/admin/passes", api.adminListPasses)
			r.Post("/admin/passes", api.adminCreatePass)
			r.Get("/admin/passes/mine", api.adminListMyPasses)
			r.Get("/admin/passes/{id}", api.adminGetPass)
			r.Patch("/admin/passes/{id}", api.adminPatchPass)
			r.Post("/admin/passes/{id}/activate", api.adminActivatePass)
			r.Delete("/admin/passes/{id}", api.adminDeletePass)
		})
	})

	return r
}
