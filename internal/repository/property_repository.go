package repository

import (
	"context"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// PropertyStats is served by GET /api/{resorts,ships}/stats.
type PropertyStats struct {
	Total         int64 `json:"total"`
	TotalCapacity int64 `json:"totalCapacity"`
	WithVenues    int64 `json:"withVenues"`
	WithAmenities int64 `json:"withAmenities"`
	Operators     int64 `json:"operators"` // distinct resort companies or cruise lines
	Countries     int64 `json:"countries,omitempty"`
}

// PropertyRepo holds the resort and ship tables and the queries that treat
// both kinds alike: amenity links, cascading delete, stats and compose.
type PropertyRepo struct {
	DB      *gorm.DB
	Resorts Table[model.Resort]
	Ships   Table[model.Ship]
}

func NewPropertyRepo(db *gorm.DB) *PropertyRepo {
	return &PropertyRepo{
		DB:      db,
		Resorts: NewTable[model.Resort](db, "resort", "name ASC, id ASC"),
		Ships:   NewTable[model.Ship](db, "ship", "name ASC, id ASC"),
	}
}

type joinSpec struct {
	table    string
	ownerCol string
	model    any
}

func amenityJoin(kind model.PropertyKind) joinSpec {
	if kind == model.PropertyShip {
		return joinSpec{table: "ship_amenities", ownerCol: "ship_id", model: &model.ShipAmenity{}}
	}
	return joinSpec{table: "resort_amenities", ownerCol: "resort_id", model: &model.ResortAmenity{}}
}

func amenityRows(kind model.PropertyKind, id uint64, amenityIDs []uint64) any {
	if kind == model.PropertyShip {
		rows := make([]model.ShipAmenity, 0, len(amenityIDs))
		for _, a := range amenityIDs {
			rows = append(rows, model.ShipAmenity{ShipID: id, AmenityID: a})
		}
		return &rows
	}
	rows := make([]model.ResortAmenity, 0, len(amenityIDs))
	for _, a := range amenityIDs {
		rows = append(rows, model.ResortAmenity{ResortID: id, AmenityID: a})
	}
	return &rows
}

// Exists returns ErrNotFound unless the property exists.
func (r *PropertyRepo) Exists(ctx context.Context, kind model.PropertyKind, id uint64) error {
	return translate("lookup "+string(kind), requireRow(r.DB.WithContext(ctx), propertyModel(kind), id, ErrNotFound))
}

// Amenities returns the amenities linked to the property, by name.
func (r *PropertyRepo) Amenities(ctx context.Context, kind model.PropertyKind, id uint64) ([]model.Amenity, error) {
	if err := r.Exists(ctx, kind, id); err != nil {
		return nil, err
	}
	j := amenityJoin(kind)
	out := make([]model.Amenity, 0)
	err := r.DB.WithContext(ctx).
		Select("amenities.*").
		Joins(fmt.Sprintf("JOIN %s ON %s.amenity_id = amenities.id", j.table, j.table)).
		Where(fmt.Sprintf("%s.%s = ?", j.table, j.ownerCol), id).
		Order("amenities.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list amenities", err)
	}
	return out, nil
}

// ReplaceAmenities makes amenityIDs the exact amenity set of the property.
// Delete and insert run in one transaction, so a failed insert leaves the
// previous set in place.  An empty list clears the set.
func (r *PropertyRepo) ReplaceAmenities(ctx context.Context, kind model.PropertyKind, id uint64, amenityIDs []uint64) ([]uint64, error) {
	ids := dedupe(amenityIDs)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, propertyModel(kind), id, ErrNotFound); err != nil {
			return err
		}
		return replaceAmenities(tx, kind, id, ids)
	})
	if err != nil {
		return nil, translate("replace amenities", err)
	}
	return ids, nil
}

func replaceAmenities(tx *gorm.DB, kind model.PropertyKind, id uint64, ids []uint64) error {
	if err := requireAll(tx, &model.Amenity{}, ids); err != nil {
		return fmt.Errorf("amenities: %w", err)
	}
	j := amenityJoin(kind)
	if err := tx.Where(j.ownerCol+" = ?", id).Delete(j.model).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Create(amenityRows(kind, id, ids)).Error
}

// Delete removes the property with its venues and amenity links.  A
// property still referenced by trips yields ErrConflict.
func (r *PropertyRepo) Delete(ctx context.Context, kind model.PropertyKind, id uint64) error {
	col := ownerColumn(kind)
	return translate("delete "+string(kind), r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trips int64
		if err := tx.Model(&model.Trip{}).Where(col+" = ?", id).Count(&trips).Error; err != nil {
			return err
		}
		if trips > 0 {
			return fmt.Errorf("%s %d is used by %d trip(s): %w", kind, id, trips, ErrConflict)
		}
		if err := tx.Where(col+" = ?", id).Delete(&model.Venue{}).Error; err != nil {
			return err
		}
		j := amenityJoin(kind)
		if err := tx.Where(j.ownerCol+" = ?", id).Delete(j.model).Error; err != nil {
			return err
		}
		res := tx.Delete(propertyModel(kind), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// Stats summarises one property table.
func (r *PropertyRepo) Stats(ctx context.Context, kind model.PropertyKind) (PropertyStats, error) {
	db := r.DB.WithContext(ctx)
	m := propertyModel(kind)
	var s PropertyStats
	if err := db.Model(m).Count(&s.Total).Error; err != nil {
		return s, translate("stats", err)
	}
	var capacity struct{ Sum int64 }
	if err := db.Model(m).Select("COALESCE(SUM(capacity), 0) AS sum").Scan(&capacity).Error; err != nil {
		return s, translate("stats", err)
	}
	s.TotalCapacity = capacity.Sum

	col := ownerColumn(kind)
	if err := db.Model(&model.Venue{}).Where(col + " IS NOT NULL").Distinct(col).Count(&s.WithVenues).Error; err != nil {
		return s, translate("stats", err)
	}
	j := amenityJoin(kind)
	if err := db.Model(j.model).Distinct(j.ownerCol).Count(&s.WithAmenities).Error; err != nil {
		return s, translate("stats", err)
	}
	operator := "resort_company_id"
	if kind == model.PropertyShip {
		operator = "cruise_line_id"
	}
	if err := db.Model(m).Where(operator + " IS NOT NULL").Distinct(operator).Count(&s.Operators).Error; err != nil {
		return s, translate("stats", err)
	}
	if kind == model.PropertyResort {
		if err := db.Model(m).Where("country IS NOT NULL").Distinct("country").Count(&s.Countries).Error; err != nil {
			return s, translate("stats", err)
		}
	}
	return s, nil
}
