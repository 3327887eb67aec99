package model

import "time"

// Talent is a performer or host.
type Talent struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	TalentCategory  *string   `gorm:"size:100" json:"talentCategory"`
	Bio             *string   `json:"bio"`
	KnownFor        *string   `json:"knownFor"`
	Country         *string   `gorm:"size:100" json:"country"`
	SocialHandle    *string   `gorm:"size:255" json:"socialHandle"`
	Website         *string   `json:"website"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TripTalent links talent to a trip.
type TripTalent struct {
	TripID   uint64  `gorm:"primaryKey;autoIncrement:false"`
	TalentID uint64  `gorm:"primaryKey;autoIncrement:false;index"`
	Role     *string `gorm:"size:100"`
	Trip     *Trip   `gorm:"constraint:OnDelete:CASCADE"`
	Talent   *Talent `gorm:"constraint:OnDelete:CASCADE"`
}

// PartyTheme describes a themed party used by events.
type PartyTheme struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:255;uniqueIndex;not null" json:"name" validate:"required,max=255"`
	ShortDescription *string   `json:"shortDescription"`
	LongDescription  *string   `json:"longDescription"`
	CostumeIdeas     *string   `json:"costumeIdeas"`
	ImageURL         *string   `json:"imageUrl"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Event is a scheduled happening within a trip.
type Event struct {
	ID           uint64      `gorm:"primaryKey" json:"id"`
	TripID       uint64      `gorm:"index;not null" json:"tripId"`
	Trip         *Trip       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date         time.Time   `gorm:"not null" json:"date" validate:"required"`
	Time         string      `gorm:"size:16;not null" json:"time" validate:"required,max=16"`
	Title        string      `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Type         string      `gorm:"size:50;not null" json:"type" validate:"required,max=50"`
	Location     *string     `json:"location"`
	Description  *string     `json:"description"`
	HostTalentID *uint64     `gorm:"index" json:"hostTalentId"`
	HostTalent   *Talent     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	PartyThemeID *uint64     `gorm:"index" json:"partyThemeId"`
	PartyTheme   *PartyTheme `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ImageURL     *string     `json:"imageUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SetTripID attaches the event to a trip.
func (e *Event) SetTripID(id uint64) { e.TripID = id }
