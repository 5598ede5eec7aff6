package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Repository defines booking data access interface
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetView(ctx context.Context, id uuid.UUID) (*View, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*View, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*View, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectBooking = `
	SELECT id, seq, client_id, profile_id, service_id, kind, booking_date, description, status, created_at, updated_at
	FROM bookings`

const selectView = `
	SELECT b.id, b.seq, b.client_id, b.profile_id, b.service_id, b.kind, b.booking_date,
		b.description, b.status, b.created_at, b.updated_at,
		u.username AS client_username,
		p.user_id AS pilot_user_id,
		p.name AS pilot_name,
		s.name AS service_name,
		s.price AS service_price
	FROM bookings b
	JOIN users u ON u.id = b.client_id
	JOIN pilot_profiles p ON p.id = b.profile_id
	JOIN service_packages s ON s.id = b.service_id`

// Create inserts a booking. A second date booking of one (profile, date) maps to ErrDateUnavailable.
func (r *repository) Create(ctx context.Context, b *Booking) error {
	q := `
		INSERT INTO bookings (id, client_id, profile_id, service_id, kind, booking_date, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq, created_at, updated_at
	`
	var date interface{}
	if b.Date.Valid {
		date = b.Date.Time.Format(validator.DateLayout)
	}

	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, q,
		b.ID, b.ClientID, b.ProfileID, b.ServiceID, b.Kind, date, b.Description, b.Status,
	).Scan(&b.Seq, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "bookings_profile_date_key" {
			return ErrDateUnavailable
		}
		return fmt.Errorf("booking repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := database.Conn(ctx, r.db).GetContext(ctx, &b, selectBooking+` WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("booking repository get: %w", err)
	}
	return &b, nil
}

func (r *repository) GetView(ctx context.Context, id uuid.UUID) (*View, error) {
	var v View
	if err := database.Conn(ctx, r.db).GetContext(ctx, &v, selectView+` WHERE b.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("booking repository get view: %w", err)
	}
	return &v, nil
}

// UpdateStatus moves a booking from one status to another and reports whether it did
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	q := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id, from, to)
	if err != nil {
		return false, fmt.Errorf("booking repository update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("booking repository update status: %w", err)
	}
	return n == 1, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*View, error) {
	var out []*View
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, selectView+` WHERE b.client_id = $1 ORDER BY b.seq`, clientID); err != nil {
		return nil, fmt.Errorf("booking repository list by client: %w", err)
	}
	return out, nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*View, error) {
	var out []*View
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, selectView+` WHERE b.profile_id = $1 ORDER BY b.seq`, profileID); err != nil {
		return nil, fmt.Errorf("booking repository list by profile: %w", err)
	}
	return out, nil
}
