package model

import "time"

// PropertyKind names the two property tables that own venues and amenities.
type PropertyKind string

const (
	PropertyResort PropertyKind = "resort"
	PropertyShip   PropertyKind = "ship"
)

// ParsePropertyKind accepts "resort", "resorts", "ship" or "ships".
func ParsePropertyKind(s string) (PropertyKind, bool) {
	switch s {
	case "resort", "resorts":
		return PropertyResort, true
	case "ship", "ships":
		return PropertyShip, true
	}
	return "", false
}

// Resort is a land property.
type Resort struct {
	ID              uint64         `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Location        *string        `json:"location"`
	City            *string        `gorm:"size:255" json:"city"`
	StateProvince   *string        `gorm:"size:255" json:"stateProvince"`
	Country         *string        `gorm:"size:255;index" json:"country"`
	Capacity        *int           `json:"capacity"`
	NumberOfRooms   *int           `json:"numberOfRooms"`
	ImageURL        *string        `json:"imageUrl"`
	Description     *string        `json:"description"`
	PropertyMapURL  *string        `json:"propertyMapUrl"`
	CheckInTime     *string        `gorm:"size:16" json:"checkInTime"`
	CheckOutTime    *string        `gorm:"size:16" json:"checkOutTime"`
	ResortCompanyID *uint64        `gorm:"index" json:"resortCompanyId"`
	ResortCompany   *ResortCompany `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Ship is a cruise ship.
type Ship struct {
	ID           uint64      `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	CruiseLineID *uint64     `gorm:"index" json:"cruiseLineId"`
	CruiseLine   *CruiseLine `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ShipCode     *string     `gorm:"size:32" json:"shipCode"`
	Capacity     *int        `json:"capacity"`
	Decks        *int        `json:"decks"`
	ImageURL     *string     `json:"imageUrl"`
	Description  *string     `json:"description"`
	DeckPlansURL *string     `json:"deckPlansUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ResortCompany is the operator of a resort.
type ResortCompany struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Website   *string   `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
}

// CruiseLine is the operator of a ship.
type CruiseLine struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Code      *string   `gorm:"size:16" json:"code"`
	Website   *string   `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
}

// Amenity is shared across properties through the join tables below.
type Amenity struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResortAmenity is a row of resort_amenities.
type ResortAmenity struct {
	ResortID  uint64   `gorm:"primaryKey;autoIncrement:false"`
	AmenityID uint64   `gorm:"primaryKey;autoIncrement:false;index"`
	Resort    *Resort  `gorm:"constraint:OnDelete:CASCADE"`
	Amenity   *Amenity `gorm:"constraint:OnDelete:CASCADE"`
}

// ShipAmenity is a row of ship_amenities.
type ShipAmenity struct {
	ShipID    uint64   `gorm:"primaryKey;autoIncrement:false"`
	AmenityID uint64   `gorm:"primaryKey;autoIncrement:false;index"`
	Ship      *Ship    `gorm:"constraint:OnDelete:CASCADE"`
	Amenity   *Amenity `gorm:"constraint:OnDelete:CASCADE"`
}

// VenueType classifies venues (restaurant, bar, theater, ...).
type VenueType struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=255"`
}

// Venue belongs to exactly one property: ShipID or ResortID is set, never
// both.  Deleting the property deletes its venues.
type Venue struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	VenueTypeID uint64     `gorm:"index;not null" json:"venueTypeId" validate:"required"`
	VenueType   *VenueType `gorm:"constraint:OnDelete:RESTRICT" json:"venueType,omitempty"`
	Description *string    `json:"description"`
	ShipID      *uint64    `gorm:"index" json:"shipId"`
	Ship        *Ship      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ResortID    *uint64    `gorm:"index" json:"resortId"`
	Resort      *Resort    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetOwner points v at the given property and clears the other owner.
func (v *Venue) SetOwner(kind PropertyKind, id uint64) {
	v.ShipID, v.ResortID = nil, nil
	switch kind {
	case PropertyShip:
		v.ShipID = &id
	case PropertyResort:
		v.ResortID = &id
	}
}

// HasSingleOwner reports whether exactly one owner is set.
func (v *Venue) HasSingleOwner() bool {
	return (v.ShipID != nil) != (v.ResortID != nil)
}
