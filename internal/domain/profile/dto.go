package profile

import (
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest for POST /profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=100"`
	Tagline  *string `json:"tagline" validate:"omitempty,max=200"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=5000"`
}

// CreateServiceRequest for POST /profile/services
type CreateServiceRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
}

// ProfileResponse represents the editable profile fields
type ProfileResponse struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Tagline           string    `json:"tagline"`
	Location          string    `json:"location"`
	Bio               string    `json:"bio"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SummaryResponse is an entry of GET /pilots
type SummaryResponse struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Tagline           string    `json:"tagline"`
	Location          string    `json:"location"`
	ProfilePictureURL string    `json:"profile_picture_url"`
}

// ServiceResponse represents a service package
type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// PortfolioItemResponse represents a portfolio image
type PortfolioItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Caption      string    `json:"caption"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// DetailResponse is GET /pilots/{id}
type DetailResponse struct {
	ID                uuid.UUID               `json:"id"`
	UserID            uuid.UUID               `json:"user_id"`
	Name              string                  `json:"name"`
	Tagline           string                  `json:"tagline"`
	Location          string                  `json:"location"`
	Bio               string                  `json:"bio"`
	ProfilePictureURL string                  `json:"profile_picture_url"`
	Services          []ServiceResponse       `json:"services"`
	Portfolio         []PortfolioItemResponse `json:"portfolio"`
	AvailableDates    []string                `json:"available_dates"`
}

// AvailabilityResponse is GET /pilots/{id}/availability
type AvailabilityResponse struct {
	ProfileID      uuid.UUID `json:"profile_id"`
	AvailableDates []string  `json:"available_dates"`
}

func ProfileResponseFromEntity(p *PilotProfile) ProfileResponse {
	return ProfileResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		Name:              p.Name,
		Tagline:           p.Tagline,
		Location:          p.Location,
		Bio:               p.Bio,
		ProfilePictureURL: p.PictureURL(),
		UpdatedAt:         p.UpdatedAt,
	}
}

func SummaryResponseFromEntity(s *Summary) SummaryResponse {
	return SummaryResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		Name:              s.Name,
		Tagline:           s.Tagline,
		Location:          s.Location,
		ProfilePictureURL: s.Picture(),
	}
}

func ServiceResponseFromEntity(s *ServicePackage) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		ProfileID:   s.ProfileID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CreatedAt:   s.CreatedAt,
	}
}

func PortfolioItemResponseFromEntity(item *PortfolioItem) PortfolioItemResponse {
	return PortfolioItemResponse{
		ID:           item.ID,
		ImageURL:     item.ImageURL,
		ThumbnailURL: item.ThumbnailURL,
		Caption:      item.Caption,
		MimeType:     item.MimeType,
		SizeBytes:    item.SizeBytes,
		CreatedAt:    item.CreatedAt,
	}
}

// DetailResponseFromEntity builds the detail view; dates are already formatted
func DetailResponseFromEntity(d *Detail, dates []string) DetailResponse {
	resp := DetailResponse{
		ID:                d.Profile.ID,
		UserID:            d.Profile.UserID,
		Name:              d.Profile.Name,
		Tagline:           d.Profile.Tagline,
		Location:          d.Profile.Location,
		Bio:               d.Profile.Bio,
		ProfilePictureURL: d.Picture(),
		Services:          make([]ServiceResponse, 0, len(d.Services)),
		Portfolio:         make([]PortfolioItemResponse, 0, len(d.Portfolio)),
		AvailableDates:    dates,
	}
	if resp.AvailableDates == nil {
		resp.AvailableDates = []string{}
	}
	for _, s := range d.Services {
		resp.Services = append(resp.Services, ServiceResponseFromEntity(s))
	}
	for _, item := range d.Portfolio {
		resp.Portfolio = append(resp.Portfolio, PortfolioItemResponseFromEntity(item))
	}
	return resp
}
