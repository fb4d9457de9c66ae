package passrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
)

// Repo is an in-memory implementation of passrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.PassID]domain.Pass
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.PassID]domain.Pass)}
}

func (r *Repo) Create(ctx context.Context, p domain.Pass) error {
	_ = ctx
	if p.ID == "" {
		return passrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return passrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = clonePass(p)
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Pass) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return passrepo.ErrNotFound
	}
	r.byID[p.ID] = clonePass(p)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PassID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return passrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PassID) (domain.Pass, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Pass{}, passrepo.ErrNotFound
	}
	return clonePass(p), nil
}

func (r *Repo) ListByStatus(ctx context.Context, status domain.PassStatus) ([]domain.Pass, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Pass, 0)
	for _, p := range r.byID {
		if p.Status == status {
			out = append(out, clonePass(p))
		}
	}
	sortPassesNewestFirst(out)
	return out, nil
}

func (r *Repo) ListByCreator(ctx context.Context, creator domain.SubjectID) ([]domain.Pass, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Pass, 0)
	for _, p := range r.byID {
		if p.CreatorSubject == creator {
			out = append(out, clonePass(p))
		}
	}
	sortPassesNewestFirst(out)
	return out, nil
}

func clonePass(p domain.Pass) domain.Pass {
	out := p
	if p.Location != nil {
		loc := *p.Location
		loc.Latitude = cloneFloatPtr(p.Location.Latitude)
		loc.Longitude = cloneFloatPtr(p.Location.Longitude)
		out.Location = &loc
	}
	out.DateStart = cloneTimePtr(p.DateStart)
	out.DateEnd = cloneTimePtr(p.DateEnd)
	return out
}

func cloneFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sortPassesNewestFirst(ps []domain.Pass) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return string(ps[i].ID) < string(ps[j].ID)
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
