package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultName is used when a profile is created without a known username
const DefaultName = "Nuevo Piloto"

// PilotProfile represents a pilot's public listing (matches pilot_profiles table)
type PilotProfile struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Tagline   string    `db:"tagline"`
	Location  string    `db:"location"`
	Bio       string    `db:"bio"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PictureURL returns the placeholder avatar for profiles without portfolio images
func (p *PilotProfile) PictureURL() string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/300/300", p.ID)
}

// ServicePackage is an offer of a pilot. Price is in the smallest currency unit.
type ServicePackage struct {
	ID          uuid.UUID `db:"id"`
	ProfileID   uuid.UUID `db:"profile_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
}

// PortfolioItem is an uploaded image shown on the profile
type PortfolioItem struct {
	ID           uuid.UUID `db:"id"`
	ProfileID    uuid.UUID `db:"profile_id"`
	ImageKey     string    `db:"image_key"`
	ImageURL     string    `db:"image_url"`
	ThumbnailURL string    `db:"thumbnail_url"`
	Caption      string    `db:"caption"`
	MimeType     string    `db:"mime_type"`
	SizeBytes    int64     `db:"size_bytes"`
	CreatedAt    time.Time `db:"created_at"`
}

// Detail is a profile with its owned collections
type Detail struct {
	Profile   *PilotProfile
	Services  []*ServicePackage
	Portfolio []*PortfolioItem
}

// Picture returns the first portfolio thumbnail, or the placeholder
func (d *Detail) Picture() string {
	for _, item := range d.Portfolio {
		if item.ThumbnailURL != "" {
			return item.ThumbnailURL
		}
		return item.ImageURL
	}
	return d.Profile.PictureURL()
}
