package model

import (
	"time"

	"gorm.io/datatypes"
)

// Trip is a scheduled trip or cruise.  Cruise is the same record; the
// /api/cruises routes are an alias of /api/trips.
type Trip struct {
	ID           uint64         `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Slug         string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ShipID       *uint64        `gorm:"index" json:"shipId"`
	ResortID     *uint64        `gorm:"index" json:"resortId"`
	TripTypeID   *uint64        `json:"tripTypeId"` // settings.id in category "trip_types"
	StartDate    time.Time      `gorm:"not null" json:"startDate" validate:"required"`
	EndDate      time.Time      `gorm:"not null" json:"endDate" validate:"required"`
	Status       string         `gorm:"size:32;not null;default:published" json:"status"`
	TripStatusID *int           `json:"tripStatusId"`
	HeroImageURL *string        `json:"heroImageUrl"`
	Description  *string        `json:"description"`
	Highlights   datatypes.JSON `json:"highlights"`
	Pricing      datatypes.JSON `json:"pricing"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	ComputedStatus TripStatus `gorm:"-" json:"computedStatus"`
}

// Cruise is kept as a name for the cruise-flavoured routes.
type Cruise = Trip

// ItineraryStop is one port/day of a trip.
type ItineraryStop struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	TripID        uint64     `gorm:"index;not null" json:"tripId"`
	Trip          *Trip      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Day           int        `json:"day"`
	Date          *time.Time `json:"date"`
	PortName      string     `gorm:"size:255;not null" json:"portName" validate:"required,max=255"`
	ArrivalTime   *string    `gorm:"size:16" json:"arrivalTime"`
	DepartureTime *string    `gorm:"size:16" json:"departureTime"`
	Description   *string    `json:"description"`
	ImageURL      *string    `json:"imageUrl"`
	OrderIndex    int        `gorm:"not null;default:0" json:"orderIndex"`
}

// TripInfoSection is a free-form block of trip information.
type TripInfoSection struct {
	ID         uint64  `gorm:"primaryKey" json:"id"`
	TripID     uint64  `gorm:"index;not null" json:"tripId"`
	Trip       *Trip   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string  `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Content    *string `json:"content"`
	OrderIndex int     `gorm:"not null;default:0" json:"orderIndex"`
}

// SetTripID attaches the row to a trip.
func (s *ItineraryStop) SetTripID(id uint64) { s.TripID = id }

// SetTripID attaches the row to a trip.
func (s *TripInfoSection) SetTripID(id uint64) { s.TripID = id }
