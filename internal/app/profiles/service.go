package profiles

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/smartwave-hq/cards-api/internal/domain"
	clockport "github.com/smartwave-hq/cards-api/internal/ports/out/clock"
	"github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

type Service struct {
	repo profilerepo.Repository
	clk  clockport.Clock

	newProfileID func() domain.ProfileID
	newPassword  func() (string, error)
}

func NewService(repo profilerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newProfileID: func() domain.ProfileID {
			return domain.ProfileID(uuid.NewString())
		},
		newPassword: generateTemporaryPassword,
	}
}

// SetNewProfileIDForTest overrides profile ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewProfileIDForTest(fn func() domain.ProfileID) {
	if fn != nil {
		s.newProfileID = fn
	}
}

func (s *Service) GetMyProfile(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	p, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, &Error{
				Status:  404,
				Code:    "PROFILE_NOT_PROVISIONED",
				Message: "No profile exists for the authenticated subject.",
			}
		}
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Service) CreateMyProfile(ctx context.Context, subject domain.SubjectID, in CreateProfileInput) (domain.Profile, error) {
	if _, err := s.repo.GetBySubject(ctx, subject); err == nil {
		return domain.Profile{}, &Error{
			Status:  409,
			Code:    "PROFILE_ALREADY_EXISTS",
			Message: "A profile already exists for the authenticated subject.",
		}
	} else if !errors.Is(err, profilerepo.ErrNotFound) {
		return domain.Profile{}, err
	}
	return s.create(ctx, subject, in)
}

// GetPublicProfile resolves a profile by its public shorturl. Inactive
// profiles are hidden: the public surface treats them as absent.
func (s *Service) GetPublicProfile(ctx context.Context, shorturl domain.Shorturl) (domain.Profile, error) {
	p, err := s.repo.GetByShorturl(ctx, shorturl)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, notFoundErr()
		}
		return domain.Profile{}, err
	}
	if !p.IsActive {
		return domain.Profile{}, notFoundErr()
	}
	return p, nil
}

func (s *Service) UpdateMyProfile(ctx context.Context, subject domain.SubjectID, in UpdateProfileInput) (domain.Profile, error) {
	p, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, &Error{
				Status:  404,
				Code:    "PROFILE_NOT_PROVISIONED",
				Message: "No profile exists for the authenticated subject.",
			}
		}
		return domain.Profile{}, err
	}
	// Self-service may not toggle activation.
	in.IsActive = Unspecified[bool]()
	return s.update(ctx, p, in)
}

// --- Admin provisioning ---

func (s *Service) ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) GetProfile(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, notFoundErr()
		}
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (domain.Profile, EmployeeCreated, error) {
	subject := domain.SubjectID(strings.TrimSpace(in.Subject))
	if subject != "" {
		if _, err := s.repo.GetBySubject(ctx, subject); err == nil {
			return domain.Profile{}, EmployeeCreated{}, &Error{
				Status:  409,
				Code:    "PROFILE_ALREADY_EXISTS",
				Message: "A profile already exists for the provided subject.",
			}
		} else if !errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, EmployeeCreated{}, err
		}
	}

	p, err := s.create(ctx, subject, in.Profile)
	if err != nil {
		return domain.Profile{}, EmployeeCreated{}, err
	}

	pw, err := s.newPassword()
	if err != nil {
		return domain.Profile{}, EmployeeCreated{}, err
	}
	return p, EmployeeCreated{ProfileID: string(p.ID), TemporaryPassword: pw}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id domain.ProfileID, in UpdateProfileInput) (domain.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, notFoundErr()
		}
		return domain.Profile{}, err
	}
	return s.update(ctx, p, in)
}

func (s *Service) DeleteProfile(ctx context.Context, id domain.ProfileID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return notFoundErr()
		}
		return err
	}
	return nil
}

// --- internals ---

func (s *Service) create(ctx context.Context, subject domain.SubjectID, in CreateProfileInput) (domain.Profile, error) {
	now := s.clk.Now()
	p := domain.Profile{
		ID:      s.newProfileID(),
		Subject: subject,

		Prefix:      strings.TrimSpace(in.Prefix),
		FirstName:   domain.NormalizeHumanName(in.FirstName),
		MiddleName:  domain.NormalizeHumanName(in.MiddleName),
		LastName:    domain.NormalizeHumanName(in.LastName),
		Suffix:      strings.TrimSpace(in.Suffix),
		DisplayName: domain.NormalizeHumanName(in.DisplayName),

		Title:          strings.TrimSpace(in.Title),
		Company:        strings.TrimSpace(in.Company),
		CompanyLogoURL: strings.TrimSpace(in.CompanyLogoURL),

		WorkEmail:     strings.TrimSpace(in.WorkEmail),
		PersonalEmail: strings.TrimSpace(in.PersonalEmail),

		Website:  strings.TrimSpace(in.Website),
		Notes:    in.Notes,
		PhotoURL: strings.TrimSpace(in.PhotoURL),

		Shorturl: domain.Shorturl(strings.TrimSpace(in.Shorturl)),

		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Phones != nil {
		p.Phones = phonesFromPatch(domain.PhoneNumbers{}, *in.Phones)
	}
	if in.Socials != nil {
		p.Socials = socialsFromPatch(domain.SocialHandles{}, *in.Socials)
	}
	if in.Work != nil {
		p.WorkAddress = addressFromPatch(domain.PostalAddress{}, *in.Work)
	}
	if in.Home != nil {
		p.HomeAddress = addressFromPatch(domain.PostalAddress{}, *in.Home)
	}

	if err := s.validate(ctx, p, ""); err != nil {
		return domain.Profile{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Profile{}, mapRepoError(err)
	}
	return p, nil
}

func (s *Service) update(ctx context.Context, p domain.Profile, in UpdateProfileInput) (domain.Profile, error) {
	applyString := func(dst *string, o Optional[string], normalize func(string) string) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		v := o.Value()
		if normalize != nil {
			v = normalize(v)
		}
		*dst = v
	}

	applyString(&p.Prefix, in.Prefix, strings.TrimSpace)
	applyString(&p.FirstName, in.FirstName, domain.NormalizeHumanName)
	applyString(&p.MiddleName, in.MiddleName, domain.NormalizeHumanName)
	applyString(&p.LastName, in.LastName, domain.NormalizeHumanName)
	applyString(&p.Suffix, in.Suffix, strings.TrimSpace)
	applyString(&p.DisplayName, in.DisplayName, domain.NormalizeHumanName)
	applyString(&p.Title, in.Title, strings.TrimSpace)
	applyString(&p.Company, in.Company, strings.TrimSpace)
	applyString(&p.CompanyLogoURL, in.CompanyLogoURL, strings.TrimSpace)
	applyString(&p.WorkEmail, in.WorkEmail, strings.TrimSpace)
	applyString(&p.PersonalEmail, in.PersonalEmail, strings.TrimSpace)
	applyString(&p.Website, in.Website, strings.TrimSpace)
	applyString(&p.Notes, in.Notes, nil)
	applyString(&p.PhotoURL, in.PhotoURL, strings.TrimSpace)

	if in.Phones.IsSpecified() {
		if in.Phones.IsNull() {
			p.Phones = domain.PhoneNumbers{}
		} else {
			p.Phones = phonesFromPatch(p.Phones, in.Phones.Value())
		}
	}
	if in.Socials.IsSpecified() {
		if in.Socials.IsNull() {
			p.Socials = domain.SocialHandles{}
		} else {
			p.Socials = socialsFromPatch(p.Socials, in.Socials.Value())
		}
	}
	if in.Work.IsSpecified() {
		if in.Work.IsNull() {
			p.WorkAddress = domain.PostalAddress{}
		} else {
			p.WorkAddress = addressFromPatch(p.WorkAddress, in.Work.Value())
		}
	}
	if in.Home.IsSpecified() {
		if in.Home.IsNull() {
			p.HomeAddress = domain.PostalAddress{}
		} else {
			p.HomeAddress = addressFromPatch(p.HomeAddress, in.Home.Value())
		}
	}

	if in.Shorturl.IsSpecified() {
		if in.Shorturl.IsNull() {
			p.Shorturl = ""
		} else {
			p.Shorturl = domain.Shorturl(strings.TrimSpace(in.Shorturl.Value()))
		}
	}
	if in.IsActive.IsSpecified() && !in.IsActive.IsNull() {
		p.IsActive = in.IsActive.Value()
	}

	if err := s.validate(ctx, p, p.ID); err != nil {
		return domain.Profile{}, err
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Profile{}, mapRepoError(err)
	}
	return p, nil
}

func (s *Service) validate(ctx context.Context, p domain.Profile, excludeID domain.ProfileID) error {
	if p.FullName() == "" {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "a display name must be derivable",
			Details: map[string]any{"name": "provide displayName or firstName/lastName"},
		}
	}
	for field, email := range map[string]string{"workEmail": p.WorkEmail, "personalEmail": p.PersonalEmail} {
		if email == "" {
			continue
		}
		if err := validateEmail(email); err != nil {
			return &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid " + field,
				Details: map[string]any{field: err.Error()},
			}
		}
	}
	if p.Shorturl != "" && !domain.ValidShorturl(string(p.Shorturl)) {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid shorturl",
			Details: map[string]any{"shorturl": "must match [a-z0-9-]{3,32}"},
		}
	}
	if p.WorkEmail != "" {
		if err := s.ensureWorkEmailUnique(ctx, p.WorkEmail, excludeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureWorkEmailUnique(ctx context.Context, email string, excludeID domain.ProfileID) error {
	owner, err := s.repo.GetByWorkEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if excludeID != "" && owner.ID == excludeID {
		return nil
	}
	return &Error{
		Status:  409,
		Code:    "EMAIL_ALREADY_IN_USE",
		Message: "work email address is already in use",
	}
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, profilerepo.ErrShorturlTaken):
		return &Error{
			Status:  409,
			Code:    "SHORTURL_ALREADY_IN_USE",
			Message: "shorturl is already in use",
		}
	case errors.Is(err, profilerepo.ErrSubjectAlreadyBound):
		return &Error{
			Status:  409,
			Code:    "PROFILE_ALREADY_EXISTS",
			Message: "A profile already exists for the provided subject.",
		}
	}
	return err
}

func notFoundErr() *Error {
	return &Error{Status: 404, Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
}

func phonesFromPatch(cur domain.PhoneNumbers, patch PhonesPatch) domain.PhoneNumbers {
	apply := func(dst *string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		*dst = strings.TrimSpace(o.Value())
	}
	apply(&cur.Mobile, patch.Mobile)
	apply(&cur.Work, patch.Work)
	apply(&cur.Fax, patch.Fax)
	apply(&cur.Home, patch.Home)
	return cur
}

func socialsFromPatch(cur domain.SocialHandles, patch SocialsPatch) domain.SocialHandles {
	apply := func(dst *string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		*dst = strings.TrimSpace(o.Value())
	}
	apply(&cur.LinkedIn, patch.LinkedIn)
	apply(&cur.Twitter, patch.Twitter)
	apply(&cur.Facebook, patch.Facebook)
	apply(&cur.Instagram, patch.Instagram)
	apply(&cur.YouTube, patch.YouTube)
	return cur
}

func addressFromPatch(cur domain.PostalAddress, patch AddressPatch) domain.PostalAddress {
	apply := func(dst *string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		*dst = strings.TrimSpace(o.Value())
	}
	apply(&cur.Street, patch.Street)
	apply(&cur.City, patch.City)
	apply(&cur.State, patch.State)
	apply(&cur.Zip, patch.Zip)
	apply(&cur.Country, patch.Country)
	return cur
}

func generateTemporaryPassword() (string, error) {
	var b [18]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
