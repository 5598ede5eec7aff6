package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skyhire/skyhire-api/internal/pkg/database"
)

// Repository defines availability ledger data access interface
type Repository interface {
	ListEntries(ctx context.Context, profileID uuid.UUID) ([]*Entry, error)
	ListAvailable(ctx context.Context, profileIDs ...uuid.UUID) ([]*Entry, error)
	DeleteAvailableExcept(ctx context.Context, profileID uuid.UUID, keep []time.Time) (int64, error)
	InsertAvailable(ctx context.Context, profileID uuid.UUID, dates []time.Time) (int64, error)
	MarkBooked(ctx context.Context, profileID uuid.UUID, date time.Time) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates availability repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// ListEntries returns every entry of a profile regardless of status, by date
func (r *repository) ListEntries(ctx context.Context, profileID uuid.UUID) ([]*Entry, error) {
	q := `
		SELECT id, profile_id, date, status, created_at, updated_at
		FROM availability
		WHERE profile_id = $1
		ORDER BY date
	`
	var out []*Entry
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, q, profileID); err != nil {
		return nil, fmt.Errorf("availability repository list entries: %w", err)
	}
	return out, nil
}

// ListAvailable returns open entries of the given profiles ordered by profile and date
func (r *repository) ListAvailable(ctx context.Context, profileIDs ...uuid.UUID) ([]*Entry, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		ids[i] = id.String()
	}

	q := `
		SELECT id, profile_id, date, status, created_at, updated_at
		FROM availability
		WHERE profile_id = ANY($1::uuid[]) AND status = 'available'
		ORDER BY profile_id, date
	`
	var out []*Entry
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &out, q, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("availability repository list available: %w", err)
	}
	return out, nil
}

// DeleteAvailableExcept removes open entries whose date is not in keep.
// Booked entries are never touched.
func (r *repository) DeleteAvailableExcept(ctx context.Context, profileID uuid.UUID, keep []time.Time) (int64, error) {
	q := `
		DELETE FROM availability
		WHERE profile_id = $1
			AND status = 'available'
			AND NOT (date = ANY($2::date[]))
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, profileID, pq.Array(formatDates(keep)))
	if err != nil {
		return 0, fmt.Errorf("availability repository delete: %w", err)
	}
	return res.RowsAffected()
}

// InsertAvailable adds open entries for dates that have none yet
func (r *repository) InsertAvailable(ctx context.Context, profileID uuid.UUID, dates []time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	q := `
		INSERT INTO availability (profile_id, date, status)
		SELECT $1, d, 'available' FROM unnest($2::date[]) AS d
		ON CONFLICT (profile_id, date) DO NOTHING
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, profileID, pq.Array(formatDates(dates)))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("availability repository insert: unknown profile %s: %w", profileID, err)
		}
		return 0, fmt.Errorf("availability repository insert: %w", err)
	}
	return res.RowsAffected()
}

// MarkBooked flips an available entry to booked.
// It reports false when the entry is missing or already booked.
func (r *repository) MarkBooked(ctx context.Context, profileID uuid.UUID, date time.Time) (bool, error) {
	q := `
		UPDATE availability
		SET status = 'booked', updated_at = NOW()
		WHERE profile_id = $1 AND date = $2 AND status = 'available'
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, profileID, FormatDate(date))
	if err != nil {
		return false, fmt.Errorf("availability repository mark booked: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("availability repository mark booked: %w", err)
	}
	return n == 1, nil
}
