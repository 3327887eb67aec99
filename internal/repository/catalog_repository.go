package repository

import (
	"context"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// AmenityStats is served by GET /api/amenities/stats.
type AmenityStats struct {
	Total        int64 `json:"total"`
	UsedByResort int64 `json:"usedByResorts"`
	UsedByShip   int64 `json:"usedByShips"`
	Unused       int64 `json:"unused"`
}

type AmenityRepo struct {
	Table[model.Amenity]
}

func NewAmenityRepo(db *gorm.DB) *AmenityRepo {
	return &AmenityRepo{Table: NewTable[model.Amenity](db, "amenity", "name ASC")}
}

// Delete removes the amenity and every link to it.
func (r *AmenityRepo) Delete(ctx context.Context, id uint64) error {
	return translate("delete amenity", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("amenity_id = ?", id).Delete(&model.ResortAmenity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("amenity_id = ?", id).Delete(&model.ShipAmenity{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Amenity{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *AmenityRepo) Stats(ctx context.Context) (AmenityStats, error) {
	db := r.DB.WithContext(ctx)
	var s AmenityStats
	if err := db.Model(&model.Amenity{}).Count(&s.Total).Error; err != nil {
		return s, translate("amenity stats", err)
	}
	if err := db.Model(&model.ResortAmenity{}).Distinct("amenity_id").Count(&s.UsedByResort).Error; err != nil {
		return s, translate("amenity stats", err)
	}
	if err := db.Model(&model.ShipAmenity{}).Distinct("amenity_id").Count(&s.UsedByShip).Error; err != nil {
		return s, translate("amenity stats", err)
	}
	err := db.Model(&model.Amenity{}).
		Where("id NOT IN (?)", db.Model(&model.ResortAmenity{}).Select("amenity_id")).
		Where("id NOT IN (?)", db.Model(&model.ShipAmenity{}).Select("amenity_id")).
		Count(&s.Unused).Error
	return s, translate("amenity stats", err)
}

type VenueTypeRepo struct {
	Table[model.VenueType]
}

func NewVenueTypeRepo(db *gorm.DB) *VenueTypeRepo {
	return &VenueTypeRepo{Table: NewTable[model.VenueType](db, "venue type", "name ASC")}
}

// Delete refuses to remove a venue type still used by venues.
func (r *VenueTypeRepo) Delete(ctx context.Context, id uint64) error {
	n, err := NewTable[model.Venue](r.DB, "venue", "").Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("venue_type_id = ?", id)
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("venue type %d has %d venue(s): %w", id, n, ErrConflict)
	}
	return r.Table.Delete(ctx, id)
}

type PartyThemeRepo struct {
	Table[model.PartyTheme]
}

func NewPartyThemeRepo(db *gorm.DB) *PartyThemeRepo {
	return &PartyThemeRepo{Table: NewTable[model.PartyTheme](db, "party theme", "name ASC")}
}

// LookupRepo serves the resort company and cruise line pick lists.
type LookupRepo struct {
	ResortCompanies Table[model.ResortCompany]
	CruiseLines     Table[model.CruiseLine]
}

func NewLookupRepo(db *gorm.DB) *LookupRepo {
	return &LookupRepo{
		ResortCompanies: NewTable[model.ResortCompany](db, "resort company", "name ASC"),
		CruiseLines:     NewTable[model.CruiseLine](db, "cruise line", "name ASC"),
	}
}
