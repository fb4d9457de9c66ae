package passes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartwave-hq/cards-api/internal/domain"
	clockport "github.com/smartwave-hq/cards-api/internal/ports/out/clock"
	"github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
)

type Service struct {
	repo passrepo.Repository
	clk  clockport.Clock

	newPassID func() domain.PassID
}

func NewService(repo passrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newPassID: func() domain.PassID {
			return domain.PassID(uuid.NewString())
		},
	}
}

// SetNewPassIDForTest overrides pass ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewPassIDForTest(fn func() domain.PassID) {
	if fn != nil {
		s.newPassID = fn
	}
}

// ListActive returns the public pass listing. Draft passes never appear here.
func (s *Service) ListActive(ctx context.Context) ([]domain.Pass, error) {
	return s.repo.ListByStatus(ctx, domain.PassStatusActive)
}

// ListMine returns every pass the viewer created, drafts included.
func (s *Service) ListMine(ctx context.Context, creator domain.SubjectID) ([]domain.Pass, error) {
	return s.repo.ListByCreator(ctx, creator)
}

// GetPass returns a pass by ID. Draft passes are visible only to admins and
// their creator; everyone else gets 404, not 403, so drafts stay unguessable.
func (s *Service) GetPass(ctx context.Context, viewer Viewer, id domain.PassID) (domain.Pass, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, passrepo.ErrNotFound) {
			return domain.Pass{}, notFoundErr()
		}
		return domain.Pass{}, err
	}
	if p.Status == domain.PassStatusDraft && !viewer.Admin && viewer.Subject != p.CreatorSubject {
		return domain.Pass{}, notFoundErr()
	}
	return p, nil
}

func (s *Service) CreatePass(ctx context.Context, creator domain.SubjectID, in CreatePassInput) (domain.Pass, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Pass{}, validationErr("invalid name", map[string]any{"name": "must be non-empty"})
	}
	if err := validateType(in.Type); err != nil {
		return domain.Pass{}, err
	}

	now := s.clk.Now()
	p := domain.Pass{
		ID:             s.newPassID(),
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		Type:           in.Type,
		Category:       strings.TrimSpace(in.Category),
		Status:         domain.PassStatusDraft,
		DateStart:      cloneTimePtr(in.DateStart),
		DateEnd:        cloneTimePtr(in.DateEnd),
		CreatorSubject: creator,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Location != nil {
		p.Location = &domain.Location{
			Name:      strings.TrimSpace(in.Location.Name),
			Latitude:  cloneFloatPtr(in.Location.Latitude),
			Longitude: cloneFloatPtr(in.Location.Longitude),
		}
	}
	if err := validatePass(p); err != nil {
		return domain.Pass{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Pass{}, err
	}
	return p, nil
}

func (s *Service) UpdatePass(ctx context.Context, id domain.PassID, in UpdatePassInput) (domain.Pass, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, passrepo.ErrNotFound) {
			return domain.Pass{}, notFoundErr()
		}
		return domain.Pass{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Pass{}, validationErr("invalid name", map[string]any{"name": "cannot be null"})
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return domain.Pass{}, validationErr("invalid name", map[string]any{"name": "must be non-empty"})
		}
		p.Name = name
	}
	if in.Description.IsSpecified() {
		if in.Description.IsNull() {
			p.Description = ""
		} else {
			p.Description = strings.TrimSpace(in.Description.Value())
		}
	}
	if in.Type.IsSpecified() {
		if in.Type.IsNull() {
			return domain.Pass{}, validationErr("invalid type", map[string]any{"type": "cannot be null"})
		}
		if err := validateType(in.Type.Value()); err != nil {
			return domain.Pass{}, err
		}
		p.Type = in.Type.Value()
	}
	if in.Category.IsSpecified() {
		if in.Category.IsNull() {
			p.Category = ""
		} else {
			p.Category = strings.TrimSpace(in.Category.Value())
		}
	}
	if in.Location.IsSpecified() {
		if in.Location.IsNull() {
			p.Location = nil
		} else if patch := in.Location.Value(); patch != nil {
			p.Location = applyLocationPatch(p.Location, *patch)
		}
	}
	if in.DateStart.IsSpecified() {
		if in.DateStart.IsNull() {
			p.DateStart = nil
		} else {
			v := in.DateStart.Value()
			p.DateStart = &v
		}
	}
	if in.DateEnd.IsSpecified() {
		if in.DateEnd.IsNull() {
			p.DateEnd = nil
		} else {
			v := in.DateEnd.Value()
			p.DateEnd = &v
		}
	}

	if err := validatePass(p); err != nil {
		return domain.Pass{}, err
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, p); err != nil {
		return domain.Pass{}, err
	}
	return p, nil
}

// ActivatePass transitions a draft to active, making it publicly visible.
// Activating an already-active pass is a no-op.
func (s *Service) ActivatePass(ctx context.Context, id domain.PassID) (domain.Pass, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, passrepo.ErrNotFound) {
			return domain.Pass{}, notFoundErr()
		}
		return domain.Pass{}, err
	}
	if p.Status == domain.PassStatusActive {
		return p, nil
	}
	p.Status = domain.PassStatusActive
	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, p); err != nil {
		return domain.Pass{}, err
	}
	return p, nil
}

// DeletePass removes the pass permanently. There is no tombstone.
func (s *Service) DeletePass(ctx context.Context, id domain.PassID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, passrepo.ErrNotFound) {
			return notFoundErr()
		}
		return err
	}
	return nil
}

func applyLocationPatch(cur *domain.Location, patch LocationPatch) *domain.Location {
	out := domain.Location{}
	if cur != nil {
		out = *cur
		out.Latitude = cloneFloatPtr(cur.Latitude)
		out.Longitude = cloneFloatPtr(cur.Longitude)
	}
	if patch.Name.IsSpecified() {
		if patch.Name.IsNull() {
			out.Name = ""
		} else {
			out.Name = strings.TrimSpace(patch.Name.Value())
		}
	}
	if patch.ClearCoordinates {
		out.Latitude = nil
		out.Longitude = nil
	} else {
		if patch.Latitude.IsSpecified() && !patch.Latitude.IsNull() {
			v := patch.Latitude.Value()
			out.Latitude = &v
		}
		if patch.Longitude.IsSpecified() && !patch.Longitude.IsNull() {
			v := patch.Longitude.Value()
			out.Longitude = &v
		}
	}
	return &out
}

func validatePass(p domain.Pass) error {
	if p.DateStart != nil && p.DateEnd != nil && p.DateEnd.Before(*p.DateStart) {
		return validationErr("invalid date range", map[string]any{"dateEnd": "must not precede dateStart"})
	}
	if loc := p.Location; loc != nil {
		if (loc.Latitude == nil) != (loc.Longitude == nil) {
			return validationErr("invalid location", map[string]any{"location": "latitude and longitude must be set together"})
		}
		if loc.Latitude != nil {
			if *loc.Latitude < -90 || *loc.Latitude > 90 {
				return validationErr("invalid location", map[string]any{"latitude": "must be in [-90, 90]"})
			}
			if *loc.Longitude < -180 || *loc.Longitude > 180 {
				return validationErr("invalid location", map[string]any{"longitude": "must be in [-180, 180]"})
			}
		}
	}
	return nil
}

func validateType(t domain.PassType) error {
	switch t {
	case domain.PassTypeEvent, domain.PassTypeAccess:
		return nil
	}
	return validationErr("invalid type", map[string]any{"type": `must be "event" or "access"`})
}

func validationErr(msg string, details map[string]any) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: msg, Details: details}
}

func notFoundErr() *Error {
	return &Error{Status: 404, Code: "PASS_NOT_FOUND", Message: "pass not found"}
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
