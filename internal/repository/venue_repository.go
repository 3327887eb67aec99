package repository

import (
	"context"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// VenueFilter narrows List.  Nil fields are ignored.
type VenueFilter struct {
	ShipID      *uint64
	ResortID    *uint64
	VenueTypeID *uint64
}

// VenueStats is served by GET /api/venues/stats.
type VenueStats struct {
	Total        int64            `json:"total"`
	ShipVenues   int64            `json:"shipVenues"`
	ResortVenues int64            `json:"resortVenues"`
	ByType       map[string]int64 `json:"byType"`
}

type VenueRepo struct {
	Table[model.Venue]
}

func NewVenueRepo(db *gorm.DB) *VenueRepo {
	return &VenueRepo{Table: NewTable[model.Venue](db, "venue", "name ASC, id ASC")}
}

func withVenueType(db *gorm.DB) *gorm.DB { return db.Preload("VenueType") }

func ownedBy(kind model.PropertyKind, id uint64) Scope {
	col := ownerColumn(kind)
	return func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", id) }
}

func ownerColumn(kind model.PropertyKind) string {
	if kind == model.PropertyShip {
		return "ship_id"
	}
	return "resort_id"
}

// List returns venues matching f with their venue type.
func (r *VenueRepo) List(ctx context.Context, f VenueFilter) ([]model.Venue, error) {
	scopes := []Scope{withVenueType}
	if f.ShipID != nil {
		scopes = append(scopes, ownedBy(model.PropertyShip, *f.ShipID))
	}
	if f.ResortID != nil {
		scopes = append(scopes, ownedBy(model.PropertyResort, *f.ResortID))
	}
	if f.VenueTypeID != nil {
		id := *f.VenueTypeID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("venue_type_id = ?", id) })
	}
	return r.Table.List(ctx, scopes...)
}

func (r *VenueRepo) Get(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	if err := r.DB.WithContext(ctx).Preload("VenueType").First(&v, id).Error; err != nil {
		return nil, translate("get venue", err)
	}
	return &v, nil
}

// Create inserts v after checking its owner and venue type.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	v.ID = 0
	return translate("create venue", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVenue(tx, v); err != nil {
			return err
		}
		return tx.Omit("VenueType", "Ship", "Resort").Create(v).Error
	}))
}

// Save updates v after checking its owner and venue type.
func (r *VenueRepo) Save(ctx context.Context, v *model.Venue) error {
	return translate("update venue", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkVenue(tx, v); err != nil {
			return err
		}
		return tx.Omit("VenueType", "Ship", "Resort").Save(v).Error
	}))
}

func checkVenue(tx *gorm.DB, v *model.Venue) error {
	if !v.HasSingleOwner() {
		return fmt.Errorf("venue needs exactly one of shipId or resortId: %w", ErrInvalid)
	}
	if err := requireRow(tx, &model.VenueType{}, v.VenueTypeID, ErrInvalidParent); err != nil {
		return fmt.Errorf("venue type %d: %w", v.VenueTypeID, err)
	}
	if v.ShipID != nil {
		return requireRow(tx, &model.Ship{}, *v.ShipID, ErrInvalidParent)
	}
	return requireRow(tx, &model.Resort{}, *v.ResortID, ErrInvalidParent)
}

// ListForProperty returns the venues of one property; ErrNotFound when the
// property does not exist.
func (r *VenueRepo) ListForProperty(ctx context.Context, kind model.PropertyKind, id uint64) ([]model.Venue, error) {
	if err := requireRow(r.DB.WithContext(ctx), propertyModel(kind), id, ErrNotFound); err != nil {
		return nil, translate("lookup "+string(kind), err)
	}
	return r.Table.List(ctx, withVenueType, ownedBy(kind, id))
}

// GetForProperty fetches a venue and checks it belongs to the property.  A
// venue owned by another property yields ErrForbidden.
func (r *VenueRepo) GetForProperty(ctx context.Context, kind model.PropertyKind, propertyID, venueID uint64) (*model.Venue, error) {
	if err := requireRow(r.DB.WithContext(ctx), propertyModel(kind), propertyID, ErrNotFound); err != nil {
		return nil, translate("lookup "+string(kind), err)
	}
	v, err := r.Get(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !ownedByProperty(v, kind, propertyID) {
		return nil, ErrForbidden
	}
	return v, nil
}

// DeleteForProperty removes a venue owned by the property.
func (r *VenueRepo) DeleteForProperty(ctx context.Context, kind model.PropertyKind, propertyID, venueID uint64) error {
	if _, err := r.GetForProperty(ctx, kind, propertyID, venueID); err != nil {
		return err
	}
	return r.Delete(ctx, venueID)
}

// ReplaceForProperty makes venues the exact venue list of the property in
// one transaction: rows with an id owned by the property are updated, rows
// without an id are inserted and owned rows missing from the list are
// deleted.  An id owned by another property yields ErrForbidden.
func (r *VenueRepo) ReplaceForProperty(ctx context.Context, kind model.PropertyKind, id uint64, venues []model.Venue) ([]model.Venue, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, propertyModel(kind), id, ErrNotFound); err != nil {
			return err
		}
		var current []model.Venue
		if err := tx.Scopes(ownedBy(kind, id)).Find(&current).Error; err != nil {
			return err
		}
		keep := make(map[uint64]bool, len(venues))
		for i := range venues {
			v := &venues[i]
			v.SetOwner(kind, id)
			if err := checkVenue(tx, v); err != nil {
				return err
			}
			if v.ID == 0 {
				if err := tx.Omit("VenueType", "Ship", "Resort").Create(v).Error; err != nil {
					return err
				}
				keep[v.ID] = true
				continue
			}
			if !containsVenue(current, v.ID) {
				return fmt.Errorf("venue %d: %w", v.ID, ErrForbidden)
			}
			keep[v.ID] = true
			err := tx.Model(&model.Venue{}).Where("id = ?", v.ID).Updates(map[string]any{
				"name":          v.Name,
				"venue_type_id": v.VenueTypeID,
				"description":   v.Description,
			}).Error
			if err != nil {
				return err
			}
		}
		var drop []uint64
		for _, c := range current {
			if !keep[c.ID] {
				drop = append(drop, c.ID)
			}
		}
		if len(drop) > 0 {
			return tx.Delete(&model.Venue{}, drop).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate("replace venues", err)
	}
	return r.ListForProperty(ctx, kind, id)
}

// Stats counts venues by owner kind and venue type.
func (r *VenueRepo) Stats(ctx context.Context) (VenueStats, error) {
	db := r.DB.WithContext(ctx)
	s := VenueStats{ByType: map[string]int64{}}
	if err := db.Model(&model.Venue{}).Count(&s.Total).Error; err != nil {
		return s, translate("venue stats", err)
	}
	if err := db.Model(&model.Venue{}).Where("ship_id IS NOT NULL").Count(&s.ShipVenues).Error; err != nil {
		return s, translate("venue stats", err)
	}
	if err := db.Model(&model.Venue{}).Where("resort_id IS NOT NULL").Count(&s.ResortVenues).Error; err != nil {
		return s, translate("venue stats", err)
	}
	var rows []struct {
		Name  string
		Count int64
	}
	err := db.Model(&model.Venue{}).
		Select("venue_types.name AS name, COUNT(venues.id) AS count").
		Joins("JOIN venue_types ON venue_types.id = venues.venue_type_id").
		Group("venue_types.name").
		Scan(&rows).Error
	if err != nil {
		return s, translate("venue stats", err)
	}
	for _, row := range rows {
		s.ByType[row.Name] = row.Count
	}
	return s, nil
}

func ownedByProperty(v *model.Venue, kind model.PropertyKind, id uint64) bool {
	if kind == model.PropertyShip {
		return v.ShipID != nil && *v.ShipID == id
	}
	return v.ResortID != nil && *v.ResortID == id
}

func containsVenue(vs []model.Venue, id uint64) bool {
	for _, v := range vs {
		if v.ID == id {
			return true
		}
	}
	return false
}

func propertyModel(kind model.PropertyKind) any {
	if kind == model.PropertyShip {
		return &model.Ship{}
	}
	return &model.Resort{}
}
