package availability

import "github.com/google/uuid"

// PublishRequest for POST /profile/availability. An empty list clears all open dates.
type PublishRequest struct {
	Dates []string `json:"dates" validate:"required,max=366"`
}

// PublishResponse represents the ledger after a publish
type PublishResponse struct {
	ProfileID      uuid.UUID `json:"profile_id"`
	AvailableDates []string  `json:"available_dates"`
	BookedDates    []string  `json:"booked_dates"`
}

func PublishResponseFromResult(r *PublishResult) PublishResponse {
	return PublishResponse{
		ProfileID:      r.ProfileID,
		AvailableDates: formatDates(r.Available),
		BookedDates:    formatDates(r.Booked),
	}
}
