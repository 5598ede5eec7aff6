package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Kind tags the two booking flows
type Kind string

const (
	// KindDate holds a calendar date of the pilot; created confirmed and never changes
	KindDate Kind = "date"
	// KindRequest is a free-text job request without a reserved date
	KindRequest Kind = "request"
)

// Status of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
)

// IsResponse reports whether s is a valid answer to a request
func (s Status) IsResponse() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Booking represents a reservation (matches bookings table)
type Booking struct {
	ID          uuid.UUID    `db:"id"`
	Seq         int64        `db:"seq"`
	ClientID    uuid.UUID    `db:"client_id"`
	ProfileID   uuid.UUID    `db:"profile_id"`
	ServiceID   uuid.UUID    `db:"service_id"`
	Kind        Kind         `db:"kind"`
	Date        sql.NullTime `db:"booking_date"`
	Description string       `db:"description"`
	Status      Status       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// CanRespond reports whether the pilot may still accept or decline
func (b *Booking) CanRespond() bool {
	return b.Kind == KindRequest && b.Status == StatusPending
}

// View is a booking joined with client, pilot and service names
type View struct {
	Booking
	ClientUsername string    `db:"client_username"`
	PilotUserID    uuid.UUID `db:"pilot_user_id"`
	PilotName      string    `db:"pilot_name"`
	ServiceName    string    `db:"service_name"`
	Price          int64     `db:"service_price"`
}
