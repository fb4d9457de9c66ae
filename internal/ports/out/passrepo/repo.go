package passrepo

import (
	"context"

	"github.com/smartwave-hq/cards-api/internal/domain"
)

// Repository provides access to persisted passes.
//
// Result ordering expectations:
// - List methods should return results ordered by CreatedAt descending (newest
//   first), ID as tiebreaker.
type Repository interface {
	Create(ctx context.Context, p domain.Pass) error
	Save(ctx context.Context, p domain.Pass) error
	Delete(ctx context.Context, id domain.PassID) error

	GetByID(ctx context.Context, id domain.PassID) (domain.Pass, error)

	// ListByStatus returns passes with the given status.
	ListByStatus(ctx context.Context, status domain.PassStatus) ([]domain.Pass, error)

	// ListByCreator returns all passes created by the subject, drafts included.
	ListByCreator(ctx context.Context, creator domain.SubjectID) ([]domain.Pass, error)
}
