package profilerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/smartwave-hq/cards-api/internal/adapters/postgres"
	"github.com/smartwave-hq/cards-api/internal/domain"
	"github.com/smartwave-hq/cards-api/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
//
// Phones, social handles and postal addresses are stored as jsonb documents;
// they are read and written whole, never queried into.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const profileColumns = `
	external_id,
	subject,
	prefix,
	first_name,
	middle_name,
	last_name,
	suffix,
	display_name,
	title,
	company,
	company_logo_url,
	work_email,
	personal_email,
	phones,
	website,
	socials,
	work_address,
	home_address,
	notes,
	photo_url,
	shorturl,
	is_active,
	created_at,
	updated_at`

func (r *Repo) Create(ctx context.Context, p domain.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid profile id: %w", err)
	}
	phones, socials, workAddr, homeAddr, err := encodeDocs(p)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (`+profileColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		`,
			id,
			nullIfEmpty(string(p.Subject)),
			p.Prefix,
			p.FirstName,
			p.MiddleName,
			p.LastName,
			p.Suffix,
			p.DisplayName,
			p.Title,
			p.Company,
			p.CompanyLogoURL,
			p.WorkEmail,
			p.PersonalEmail,
			phones,
			p.Website,
			socials,
			workAddr,
			homeAddr,
			p.Notes,
			p.PhotoURL,
			nullIfEmpty(string(p.Shorturl)),
			p.IsActive,
			p.CreatedAt.UTC(),
			p.UpdatedAt.UTC(),
		)
		if err != nil {
			return mapUniqueViolation(err)
		}
		return nil
	})
}

func (r *Repo) Update(ctx context.Context, p domain.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid profile id: %w", err)
	}
	phones, socials, workAddr, homeAddr, err := encodeDocs(p)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := getByExternalID(ctx, tx, id)
		if err != nil {
			return err
		}
		// Subject binding is immutable once set.
		if existing.Subject != "" && existing.Subject != p.Subject {
			return profilerepo.ErrSubjectAlreadyBound
		}

		ct, err := tx.Exec(ctx, `
			UPDATE profiles
			SET subject = $2,
			    prefix = $3,
			    first_name = $4,
			    middle_name = $5,
			    last_name = $6,
			    suffix = $7,
			    display_name = $8,
			    title = $9,
			    company = $10,
			    company_logo_url = $11,
			    work_email = $12,
			    personal_email = $13,
			    phones = $14,
			    website = $15,
			    socials = $16,
			    work_address = $17,
			    home_address = $18,
			    notes = $19,
			    photo_url = $20,
			    shorturl = $21,
			    is_active = $22,
			    updated_at = $23
			WHERE external_id = $1
		`,
			id,
			nullIfEmpty(string(p.Subject)),
			p.Prefix,
			p.FirstName,
			p.MiddleName,
			p.LastName,
			p.Suffix,
			p.DisplayName,
			p.Title,
			p.Company,
			p.CompanyLogoURL,
			p.WorkEmail,
			p.PersonalEmail,
			phones,
			p.Website,
			socials,
			workAddr,
			homeAddr,
			p.Notes,
			p.PhotoURL,
			nullIfEmpty(string(p.Shorturl)),
			p.IsActive,
			p.UpdatedAt.UTC(),
		)
		if err != nil {
			return mapUniqueViolation(err)
		}
		if ct.RowsAffected() == 0 {
			return profilerepo.ErrNotFound
		}
		return nil
	})
}

func (r *Repo) Delete(ctx context.Context, id domain.ProfileID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return profilerepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return profilerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return getByExternalID(ctx, r.pool, uid)
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	if subject == "" {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE subject = $1
	`, string(subject))
	return scanProfile(row)
}

func (r *Repo) GetByShorturl(ctx context.Context, shorturl domain.Shorturl) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	if shorturl == "" {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE shorturl = $1
	`, string(shorturl))
	return scanProfile(row)
}

func (r *Repo) GetByWorkEmail(ctx context.Context, email string) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	if email == "" {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE lower(work_email) = lower($1)
		LIMIT 1
	`, email)
	return scanProfile(row)
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where := ""
	if !includeInactive {
		where = "WHERE is_active = true"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		`+where+`
		ORDER BY lower(trim(coalesce(nullif(display_name, ''), first_name || ' ' || last_name))) ASC,
		         external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

// --- helpers ---

// phonesDoc, socialsDoc and addressDoc pin the jsonb shapes independently of
// the domain structs so renames there never silently change stored documents.
type phonesDoc struct {
	Mobile string `json:"mobile,omitempty"`
	Work   string `json:"work,omitempty"`
	Fax    string `json:"fax,omitempty"`
	Home   string `json:"home,omitempty"`
}

type socialsDoc struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type addressDoc struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

func encodeDocs(p domain.Profile) (phones, socials, workAddr, homeAddr []byte, err error) {
	phones, err = json.Marshal(phonesDoc{
		Mobile: p.Phones.Mobile,
		Work:   p.Phones.Work,
		Fax:    p.Phones.Fax,
		Home:   p.Phones.Home,
	})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode phones: %w", err)
	}
	socials, err = json.Marshal(socialsDoc{
		LinkedIn:  p.Socials.LinkedIn,
		Twitter:   p.Socials.Twitter,
		Facebook:  p.Socials.Facebook,
		Instagram: p.Socials.Instagram,
		YouTube:   p.Socials.YouTube,
	})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode socials: %w", err)
	}
	workAddr, err = encodeAddress(p.WorkAddress)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	homeAddr, err = encodeAddress(p.HomeAddress)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return phones, socials, workAddr, homeAddr, nil
}

func encodeAddress(a domain.PostalAddress) ([]byte, error) {
	b, err := json.Marshal(addressDoc{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return b, nil
}

func mapUniqueViolation(err error) error {
	if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
		switch pe.ConstraintName {
		case "profiles_subject_unique":
			return profilerepo.ErrSubjectAlreadyBound
		case "profiles_shorturl_unique":
			return profilerepo.ErrShorturlTaken
		case "profiles_external_id_unique":
			return profilerepo.ErrAlreadyExists
		}
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getByExternalID(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, id uuid.UUID) (domain.Profile, error) {
	row := q.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE external_id = $1
	`, id)
	return scanProfile(row)
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (domain.Profile, error) {
	var (
		externalID uuid.UUID
		subject    *string
		shorturl   *string

		phonesRaw   []byte
		socialsRaw  []byte
		workAddrRaw []byte
		homeAddrRaw []byte

		createdAt time.Time
		updatedAt time.Time
	)
	var p domain.Profile
	if err := row.Scan(
		&externalID,
		&subject,
		&p.Prefix,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.Suffix,
		&p.DisplayName,
		&p.Title,
		&p.Company,
		&p.CompanyLogoURL,
		&p.WorkEmail,
		&p.PersonalEmail,
		&phonesRaw,
		&p.Website,
		&socialsRaw,
		&workAddrRaw,
		&homeAddrRaw,
		&p.Notes,
		&p.PhotoURL,
		&shorturl,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, profilerepo.ErrNotFound
		}
		return domain.Profile{}, err
	}

	var phones phonesDoc
	if err := json.Unmarshal(phonesRaw, &phones); err != nil {
		return domain.Profile{}, fmt.Errorf("decode phones: %w", err)
	}
	var socials socialsDoc
	if err := json.Unmarshal(socialsRaw, &socials); err != nil {
		return domain.Profile{}, fmt.Errorf("decode socials: %w", err)
	}
	workAddr, err := decodeAddress(workAddrRaw)
	if err != nil {
		return domain.Profile{}, err
	}
	homeAddr, err := decodeAddress(homeAddrRaw)
	if err != nil {
		return domain.Profile{}, err
	}

	p.ID = domain.ProfileID(externalID.String())
	if subject != nil {
		p.Subject = domain.SubjectID(*subject)
	}
	if shorturl != nil {
		p.Shorturl = domain.Shorturl(*shorturl)
	}
	p.Phones = domain.PhoneNumbers{
		Mobile: phones.Mobile,
		Work:   phones.Work,
		Fax:    phones.Fax,
		Home:   phones.Home,
	}
	p.Socials = domain.SocialHandles{
		LinkedIn:  socials.LinkedIn,
		Twitter:   socials.Twitter,
		Facebook:  socials.Facebook,
		Instagram: socials.Instagram,
		YouTube:   socials.YouTube,
	}
	p.WorkAddress = workAddr
	p.HomeAddress = homeAddr
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

func decodeAddress(raw []byte) (domain.PostalAddress, error) {
	var a addressDoc
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.PostalAddress{}, fmt.Errorf("decode address: %w", err)
	}
	return domain.PostalAddress{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}, nil
}
