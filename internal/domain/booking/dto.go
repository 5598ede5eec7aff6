package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// BookRequest for POST /book. PilotID is the pilot's profile id.
type BookRequest struct {
	PilotID   uuid.UUID `json:"pilot_id" validate:"required"`
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	Date      string    `json:"date" validate:"required"`
}

// CreateRequestRequest for POST /bookings/requests
type CreateRequestRequest struct {
	PilotID     uuid.UUID `json:"pilot_id" validate:"required"`
	ServiceID   uuid.UUID `json:"service_id" validate:"required"`
	Description string    `json:"description" validate:"required,min=10,max=5000"`
}

// RespondRequest for POST /bookings/{id}/respond
type RespondRequest struct {
	Status string `json:"status" validate:"required,booking_response"`
}

// Response represents a booking with denormalized names
type Response struct {
	ID             uuid.UUID `json:"id"`
	Kind           Kind      `json:"kind"`
	Status         Status    `json:"status"`
	Date           *string   `json:"date,omitempty"`
	Description    string    `json:"description,omitempty"`
	ClientID       uuid.UUID `json:"client_id"`
	ClientUsername string    `json:"client_username"`
	PilotID        uuid.UUID `json:"pilot_id"`
	PilotName      string    `json:"pilot_name"`
	ServiceID      uuid.UUID `json:"service_id"`
	ServiceName    string    `json:"service_name"`
	Price          int64     `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ResponseFromView(v *View) Response {
	resp := Response{
		ID:             v.ID,
		Kind:           v.Kind,
		Status:         v.Status,
		Description:    v.Description,
		ClientID:       v.ClientID,
		ClientUsername: v.ClientUsername,
		PilotID:        v.ProfileID,
		PilotName:      v.PilotName,
		ServiceID:      v.ServiceID,
		ServiceName:    v.ServiceName,
		Price:          v.Price,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	if v.Date.Valid {
		d := v.Date.Time.Format(validator.DateLayout)
		resp.Date = &d
	}
	return resp
}

func ResponsesFromViews(views []*View) []Response {
	out := make([]Response, 0, len(views))
	for _, v := range views {
		out = append(out, ResponseFromView(v))
	}
	return out
}
