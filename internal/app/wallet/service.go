// Package wallet turns profile and pass records into wallet-issuance requests
// against the external signing service. Signing and certificate management are
// entirely outside this repository.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
	"github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
	"github.com/smartwave-hq/cards-api/internal/ports/out/walletsigner"
)

type Service struct {
	profiles profilerepo.Repository
	passes   passrepo.Repository
	signer   walletsigner.Signer

	publicBaseURL string
}

func NewService(profiles profilerepo.Repository, passes passrepo.Repository, signer walletsigner.Signer, publicBaseURL string) *Service {
	return &Service{
		profiles:      profiles,
		passes:        passes,
		signer:        signer,
		publicBaseURL: publicBaseURL,
	}
}

// IssueForProfile requests a signed contact-card wallet artifact for the
// profile behind shorturl.
func (s *Service) IssueForProfile(ctx context.Context, platform walletsigner.Platform, shorturl domain.Shorturl) (walletsigner.Artifact, error) {
	if err := validatePlatform(platform); err != nil {
		return walletsigner.Artifact{}, err
	}
	p, err := s.profiles.GetByShorturl(ctx, shorturl)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return walletsigner.Artifact{}, &Error{Status: 404, Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
		}
		return walletsigner.Artifact{}, err
	}
	if !p.IsActive {
		return walletsigner.Artifact{}, &Error{Status: 404, Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
	}

	req := walletsigner.Request{
		Platform:     platform,
		Template:     walletsigner.TemplateContactCard,
		SerialNumber: "profile-" + string(p.ID),
		Title:        p.FullName(),
		Description:  p.Title,
		Fields: map[string]string{
			"name":    p.FullName(),
			"title":   p.Title,
			"company": p.Company,
			"email":   p.WorkEmail,
			"phone":   p.Phones.Mobile,
		},
		BarcodePayload: s.publicBaseURL + "/p/" + string(p.Shorturl),
	}
	return s.sign(ctx, req)
}

// IssueForPass requests a signed event/access wallet artifact. Draft passes
// are not issuable: the pass must be active.
func (s *Service) IssueForPass(ctx context.Context, platform walletsigner.Platform, id domain.PassID) (walletsigner.Artifact, error) {
	if err := validatePlatform(platform); err != nil {
		return walletsigner.Artifact{}, err
	}
	p, err := s.passes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, passrepo.ErrNotFound) {
			return walletsigner.Artifact{}, &Error{Status: 404, Code: "PASS_NOT_FOUND", Message: "pass not found"}
		}
		return walletsigner.Artifact{}, err
	}
	if p.Status != domain.PassStatusActive {
		return walletsigner.Artifact{}, &Error{Status: 404, Code: "PASS_NOT_FOUND", Message: "pass not found"}
	}

	template := walletsigner.TemplateEvent
	if p.Type == domain.PassTypeAccess {
		template = walletsigner.TemplateAccess
	}
	fields := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
	}
	if p.Location != nil && p.Location.Name != "" {
		fields["venue"] = p.Location.Name
	}
	if p.DateStart != nil {
		fields["starts"] = p.DateStart.UTC().Format(time.RFC3339)
	}
	if p.DateEnd != nil {
		fields["ends"] = p.DateEnd.UTC().Format(time.RFC3339)
	}

	req := walletsigner.Request{
		Platform:       platform,
		Template:       template,
		SerialNumber:   "pass-" + string(p.ID),
		Title:          p.Name,
		Description:    p.Description,
		Fields:         fields,
		BarcodePayload: s.publicBaseURL + "/passes/" + string(p.ID),
	}
	return s.sign(ctx, req)
}

func (s *Service) sign(ctx context.Context, req walletsigner.Request) (walletsigner.Artifact, error) {
	a, err := s.signer.Sign(ctx, req)
	if err != nil {
		// No retry policy: a failed signing request surfaces directly.
		return walletsigner.Artifact{}, &Error{
			Status:  502,
			Code:    "WALLET_SIGNER_UNAVAILABLE",
			Message: "wallet signing service failed",
		}
	}
	return a, nil
}

func validatePlatform(p walletsigner.Platform) error {
	switch p {
	case walletsigner.PlatformApple, walletsigner.PlatformGoogle:
		return nil
	}
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid platform",
		Details: map[string]any{"platform": `must be "apple" or "google"`},
	}
}
