package availability

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Status of a calendar date
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
)

// Entry is one calendar date of a pilot profile (matches availability table).
// At most one entry exists per (profile, date).
type Entry struct {
	ID        uuid.UUID `db:"id"`
	ProfileID uuid.UUID `db:"profile_id"`
	Date      time.Time `db:"date"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsBooked reports whether a booking holds the date
func (e *Entry) IsBooked() bool {
	return e.Status == StatusBooked
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(validator.DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(validator.DateLayout)
}

// ParseDates parses, deduplicates and sorts a set of dates.
// The first malformed value is reported in the error.
func ParseDates(raw []string) ([]time.Time, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDate(s)
		if err != nil {
			return nil, &InvalidDateError{Value: s}
		}
		key := FormatDate(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDate(d)
	}
	return out
}
