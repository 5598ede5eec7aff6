package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skyhire/skyhire-api/internal/pkg/database"
)

// Summary is a profile row plus its cover image, used by listings
type Summary struct {
	PilotProfile
	CoverURL string `db:"cover_url"`
}

// Picture returns the cover image or the placeholder
func (s *Summary) Picture() string {
	if s.CoverURL != "" {
		return s.CoverURL
	}
	return s.PictureURL()
}

// Repository defines pilot profile data access interface
type Repository interface {
	Ensure(ctx context.Context, userID uuid.UUID, name string) (*PilotProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PilotProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PilotProfile, error)
	LockByID(ctx context.Context, id uuid.UUID) (*PilotProfile, error)
	LockShared(ctx context.Context, id uuid.UUID) (*PilotProfile, error)
	List(ctx context.Context) ([]*Summary, error)
	Update(ctx context.Context, p *PilotProfile) error

	CreateService(ctx context.Context, svc *ServicePackage) error
	GetService(ctx context.Context, id uuid.UUID) (*ServicePackage, error)
	ListServices(ctx context.Context, profileIDs ...uuid.UUID) ([]*ServicePackage, error)

	CreatePortfolioItem(ctx context.Context, item *PortfolioItem) error
	ListPortfolio(ctx context.Context, profileID uuid.UUID) ([]*PortfolioItem, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates pilot profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectProfile = `
	SELECT id, user_id, name, tagline, location, bio, created_at, updated_at
	FROM pilot_profiles`

// Ensure returns the profile of userID, creating it when missing.
// Concurrent callers converge on the same row.
func (r *repository) Ensure(ctx context.Context, userID uuid.UUID, name string) (*PilotProfile, error) {
	q := `
		INSERT INTO pilot_profiles (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, q, uuid.New(), userID, name); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("profile repository ensure: %w", err)
	}

	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*PilotProfile, error) {
	return r.getOne(ctx, selectProfile+` WHERE id = $1`, id)
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*PilotProfile, error) {
	return r.getOne(ctx, selectProfile+` WHERE user_id = $1`, userID)
}

// LockByID loads the profile with a row lock held until the surrounding transaction ends
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*PilotProfile, error) {
	return r.getOne(ctx, selectProfile+` WHERE id = $1 FOR UPDATE`, id)
}

// LockShared loads the profile with a shared row lock: it blocks LockByID
// holders and is blocked by them, but not by other shared holders
func (r *repository) LockShared(ctx context.Context, id uuid.UUID) (*PilotProfile, error) {
	return r.getOne(ctx, selectProfile+` WHERE id = $1 FOR SHARE`, id)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*PilotProfile, error) {
	var p PilotProfile
	if err := database.Conn(ctx, r.db).GetContext(ctx, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile repository get: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]*Summary, error) {
	q := `
		SELECT p.id, p.user_id, p.name, p.tagline, p.location, p.bio, p.created_at, p.updated_at,
			COALESCE(cover.url, '') AS cover_url
		FROM pilot_profiles p
		LEFT JOIN LATERAL (
			SELECT COALESCE(NULLIF(pi.thumbnail_url, ''), pi.image_url) AS url
			FROM portfolio_items pi
			WHERE pi.profile_id = p.id
			ORDER BY pi.created_at, pi.id
			LIMIT 1
		) cover ON true
		ORDER BY p.created_at, p.id
	`
	var out []*Summary
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("profile repository list: %w", err)
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, p *PilotProfile) error {
	q := `
		UPDATE pilot_profiles SET
			name = $2, tagline = $3, location = $4, bio = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, q, p.ID, p.Name, p.Tagline, p.Location, p.Bio).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("profile repository update: %w", err)
	}
	return nil
}

func (r *repository) CreateService(ctx context.Context, svc *ServicePackage) error {
	q := `
		INSERT INTO service_packages (id, profile_id, name, description, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, q,
		svc.ID, svc.ProfileID, svc.Name, svc.Description, svc.Price,
	).Scan(&svc.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("profile repository create service: %w", err)
	}
	return nil
}

func (r *repository) GetService(ctx context.Context, id uuid.UUID) (*ServicePackage, error) {
	q := `SELECT id, profile_id, name, description, price, created_at FROM service_packages WHERE id = $1`
	var svc ServicePackage
	if err := database.Conn(ctx, r.db).GetContext(ctx, &svc, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile repository get service: %w", err)
	}
	return &svc, nil
}

// ListServices returns services of the given profiles ordered by creation
func (r *repository) ListServices(ctx context.Context, profileIDs ...uuid.UUID) ([]*ServicePackage, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		ids[i] = id.String()
	}

	q := `
		SELECT id, profile_id, name, description, price, created_at
		FROM service_packages
		WHERE profile_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`
	var out []*ServicePackage
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, q, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("profile repository list services: %w", err)
	}
	return out, nil
}

func (r *repository) CreatePortfolioItem(ctx context.Context, item *PortfolioItem) error {
	q := `
		INSERT INTO portfolio_items (id, profile_id, image_key, image_url, thumbnail_url, caption, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, q,
		item.ID, item.ProfileID, item.ImageKey, item.ImageURL, item.ThumbnailURL,
		item.Caption, item.MimeType, item.SizeBytes,
	).Scan(&item.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("profile repository create portfolio item: %w", err)
	}
	return nil
}

func (r *repository) ListPortfolio(ctx context.Context, profileID uuid.UUID) ([]*PortfolioItem, error) {
	q := `
		SELECT id, profile_id, image_key, image_url, thumbnail_url, caption, mime_type, size_bytes, created_at
		FROM portfolio_items
		WHERE profile_id = $1
		ORDER BY created_at, id
	`
	var out []*PortfolioItem
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, q, profileID); err != nil {
		return nil, fmt.Errorf("profile repository list portfolio: %w", err)
	}
	return out, nil
}
