package database

import (
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// Models lists every table in dependency order (parents first).
func Models() []any {
	return []any{
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordResetToken{},
		&model.ResortCompany{},
		&model.CruiseLine{},
		&model.Resort{},
		&model.Ship{},
		&model.Amenity{},
		&model.ResortAmenity{},
		&model.ShipAmenity{},
		&model.VenueType{},
		&model.Venue{},
		&model.Trip{},
		&model.ItineraryStop{},
		&model.TripInfoSection{},
		&model.Talent{},
		&model.TripTalent{},
		&model.PartyTheme{},
		&model.Event{},
		&model.Setting{},
		&model.AuditLog{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
