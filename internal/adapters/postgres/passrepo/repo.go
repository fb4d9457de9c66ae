package passrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/smartwave-hq/cards-api/internal/adapters/postgres"
	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/passrepo"
)

// Repo is a Postgres implementation of passrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const passColumns = `
	external_id,
	name,
	description,
	pass_type,
	category,
	status,
	location_name,
	latitude,
	longitude,
	date_start,
	date_end,
	creator_subject,
	created_at,
	updated_at`

func (r *Repo) Create(ctx context.Context, p domain.Pass) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid pass id: %w", err)
	}

	var locName *string
	var lat, lng *float64
	if p.Location != nil {
		name := p.Location.Name
		locName = &name
		lat = p.Location.Latitude
		lng = p.Location.Longitude
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO passes (`+passColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		id,
		p.Name,
		p.Description,
		string(p.Type),
		p.Category,
		string(p.Status),
		locName,
		lat,
		lng,
		utcPtr(p.DateStart),
		utcPtr(p.DateEnd),
		string(p.CreatorSubject),
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if pe.ConstraintName == "passes_external_id_unique" {
				return passrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Pass) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return passrepo.ErrNotFound
	}

	var locName *string
	var lat, lng *float64
	if p.Location != nil {
		name := p.Location.Name
		locName = &name
		lat = p.Location.Latitude
		lng = p.Location.Longitude
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE passes
		SET name = $2,
		    description = $3,
		    pass_type = $4,
		    category = $5,
		    status = $6,
		    location_name = $7,
		    latitude = $8,
		    longitude = $9,
		    date_start = $10,
		    date_end = $11,
		    updated_at = $12
		WHERE external_id = $1
	`,
		id,
		p.Name,
		p.Description,
		string(p.Type),
		p.Category,
		string(p.Status),
		locName,
		lat,
		lng,
		utcPtr(p.DateStart),
		utcPtr(p.DateEnd),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return passrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PassID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return passrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM passes WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return passrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PassID) (domain.Pass, error) {
	if r.pool == nil {
		return domain.Pass{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Pass{}, passrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+passColumns+`
		FROM passes
		WHERE external_id = $1
	`, uid)
	return scanPass(row)
}

func (r *Repo) ListByStatus(ctx context.Context, status domain.PassStatus) ([]domain.Pass, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+passColumns+`
		FROM passes
		WHERE status = $1
		ORDER BY created_at DESC, external_id ASC
	`, string(status))
	if err != nil {
		return nil, err
	}
	return collectPasses(rows)
}

func (r *Repo) ListByCreator(ctx context.Context, creator domain.SubjectID) ([]domain.Pass, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+passColumns+`
		FROM passes
		WHERE creator_subject = $1
		ORDER BY created_at DESC, external_id ASC
	`, string(creator))
	if err != nil {
		return nil, err
	}
	return collectPasses(rows)
}

// --- helpers ---

func collectPasses(rows pgx.Rows) ([]domain.Pass, error) {
	defer rows.Close()
	out := make([]domain.Pass, 0)
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPass(row interface {
	Scan(dest ...any) error
}) (domain.Pass, error) {
	var (
		externalID uuid.UUID
		passType   string
		status     string

		locName *string
		lat     *float64
		lng     *float64

		dateStart *time.Time
		dateEnd   *time.Time

		createdAt time.Time
		updatedAt time.Time
	)
	var p domain.Pass
	var creator string
	if err := row.Scan(
		&externalID,
		&p.Name,
		&p.Description,
		&passType,
		&p.Category,
		&status,
		&locName,
		&lat,
		&lng,
		&dateStart,
		&dateEnd,
		&creator,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Pass{}, passrepo.ErrNotFound
		}
		return domain.Pass{}, err
	}

	p.ID = domain.PassID(externalID.String())
	p.Type = domain.PassType(passType)
	p.Status = domain.PassStatus(status)
	p.CreatorSubject = domain.SubjectID(creator)
	if locName != nil {
		p.Location = &domain.Location{Name: *locName, Latitude: lat, Longitude: lng}
	}
	p.DateStart = utcPtr(dateStart)
	p.DateEnd = utcPtr(dateEnd)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
