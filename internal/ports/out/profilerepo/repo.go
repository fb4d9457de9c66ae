package profilerepo

import (
	"context"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// Repository provides access to persisted profiles.
//
// Result ordering expectations:
// - List should return results ordered by resolved full name ascending (ID as
//   tiebreaker) to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, p domain.Profile) error
	Update(ctx context.Context, p domain.Profile) error
	Delete(ctx context.Context, id domain.ProfileID) error

	GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Profile, error)
	GetByShorturl(ctx context.Context, shorturl domain.Shorturl) (domain.Profile, error)

	// GetByWorkEmail matches case-insensitively. Used for uniqueness checks,
	// so any single match suffices.
	GetByWorkEmail(ctx context.Context, email string) (domain.Profile, error)

	List(ctx context.Context, includeInactive bool) ([]domain.Profile, error)
}
