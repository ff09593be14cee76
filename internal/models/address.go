package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/geo"
)

// Address is a saved location owned by a user
type Address struct {
	ID               uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserID           uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Street           string    `gorm:"size:255" json:"street"`
	City             string    `gorm:"size:100" json:"city"`
	State            string    `gorm:"size:100" json:"state"`
	PostalCode       string    `gorm:"size:20" json:"postal_code"`
	Country          string    `gorm:"size:100" json:"country"`
	FormattedAddress string    `gorm:"size:512" json:"formatted_address"`
	Latitude         float64   `gorm:"not null;index:idx_addresses_lat_lng,priority:1" json:"latitude"`
	Longitude        float64   `gorm:"not null;index:idx_addresses_lat_lng,priority:2" json:"longitude"`
}

// BeforeCreate assigns a fresh identifier
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Point returns the address location
func (a *Address) Point() geo.Point {
	return geo.Point{Lat: a.Latitude, Lng: a.Longitude}
}

// Format joins the non-empty address parts into a single line
func (a *Address) Format() string {
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
