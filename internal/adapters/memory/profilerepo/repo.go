package profilerepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.ProfileID]domain.Profile
	idBySub   map[domain.SubjectID]domain.ProfileID
	idByShort map[domain.Shorturl]domain.ProfileID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.ProfileID]domain.Profile),
		idBySub:   make(map[domain.SubjectID]domain.ProfileID),
		idByShort: make(map[domain.Shorturl]domain.ProfileID),
	}
}

func (r *Repo) Create(ctx context.Context, p domain.Profile) error {
	_ = ctx
	if p.ID == "" {
		return profilerepo.ErrAlreadyExists // treat empty ID as invalid; app layer validates earlier
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return profilerepo.ErrAlreadyExists
	}
	if p.Subject != "" {
		if existingID, ok := r.idBySub[p.Subject]; ok && existingID != "" {
			return profilerepo.ErrSubjectAlreadyBound
		}
	}
	if p.Shorturl != "" {
		if existingID, ok := r.idByShort[p.Shorturl]; ok && existingID != "" {
			return profilerepo.ErrShorturlTaken
		}
	}

	r.byID[p.ID] = p
	if p.Subject != "" {
		r.idBySub[p.Subject] = p.ID
	}
	if p.Shorturl != "" {
		r.idByShort[p.Shorturl] = p.ID
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, p domain.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return profilerepo.ErrNotFound
	}
	// Subject binding is immutable once set.
	if existing.Subject != "" && existing.Subject != p.Subject {
		return profilerepo.ErrSubjectAlreadyBound
	}
	if p.Shorturl != "" {
		if owner, ok := r.idByShort[p.Shorturl]; ok && owner != p.ID {
			return profilerepo.ErrShorturlTaken
		}
	}

	if existing.Shorturl != "" && existing.Shorturl != p.Shorturl {
		delete(r.idByShort, existing.Shorturl)
	}
	if existing.Subject == "" && p.Subject != "" {
		if owner, ok := r.idBySub[p.Subject]; ok && owner != p.ID {
			return profilerepo.ErrSubjectAlreadyBound
		}
		r.idBySub[p.Subject] = p.ID
	}

	r.byID[p.ID] = p
	if p.Shorturl != "" {
		r.idByShort[p.Shorturl] = p.ID
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ProfileID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return profilerepo.ErrNotFound
	}
	delete(r.byID, id)
	if p.Subject != "" {
		delete(r.idBySub, p.Subject)
	}
	if p.Shorturl != "" {
		delete(r.idByShort, p.Shorturl)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idBySub[subject]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	p, ok := r.byID[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) GetByShorturl(ctx context.Context, shorturl domain.Shorturl) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByShort[shorturl]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	p, ok := r.byID[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) GetByWorkEmail(ctx context.Context, email string) (domain.Profile, error) {
	_ = ctx
	if email == "" {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.byID {
		if strings.EqualFold(p.WorkEmail, email) {
			return p, nil
		}
	}
	return domain.Profile{}, profilerepo.ErrNotFound
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sortProfilesByName(out)
	return out, nil
}

func sortProfilesByName(ps []domain.Profile) {
	sort.Slice(ps, func(i, j int) bool {
		ni := strings.ToLower(ps[i].FullName())
		nj := strings.ToLower(ps[j].FullName())
		if ni == nj {
			return string(ps[i].ID) < string(ps[j].ID)
		}
		return ni < nj
	})
}
