package repository

import (
	"context"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// ComposedProperty is the result of PropertyBuilder.Commit.
type ComposedProperty struct {
	Kind       model.PropertyKind `json:"kind"`
	Property   any                `json:"property"`
	AmenityIDs []uint64           `json:"amenityIds"`
	Venues     []model.Venue      `json:"venues"`
}

// PropertyBuilder stages a new resort or ship together with its amenity
// links and venues, then writes all of them in one transaction.  Nothing
// touches the database before Commit.
type PropertyBuilder struct {
	repo       *PropertyRepo
	kind       model.PropertyKind
	resort     *model.Resort
	ship       *model.Ship
	amenityIDs []uint64
	venues     []model.Venue
}

func (r *PropertyRepo) NewResortBuilder(res *model.Resort) *PropertyBuilder {
	return &PropertyBuilder{repo: r, kind: model.PropertyResort, resort: res}
}

func (r *PropertyRepo) NewShipBuilder(s *model.Ship) *PropertyBuilder {
	return &PropertyBuilder{repo: r, kind: model.PropertyShip, ship: s}
}

// SetAmenities stages the amenity set.
func (b *PropertyBuilder) SetAmenities(ids []uint64) *PropertyBuilder {
	b.amenityIDs = dedupe(ids)
	return b
}

// StageVenue adds a venue to create with the property.  Any id or owner on
// v is ignored.
func (b *PropertyBuilder) StageVenue(v model.Venue) *PropertyBuilder {
	v.ID = 0
	v.ShipID, v.ResortID = nil, nil
	v.VenueType = nil
	b.venues = append(b.venues, v)
	return b
}

// Commit inserts the parent, its amenity links and its venues.  Any
// failure rolls back every write.
func (b *PropertyBuilder) Commit(ctx context.Context) (*ComposedProperty, error) {
	out := &ComposedProperty{Kind: b.kind, AmenityIDs: b.amenityIDs, Venues: b.venues}
	err := b.repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var id uint64
		switch b.kind {
		case model.PropertyShip:
			b.ship.ID = 0
			if err := tx.Omit("CruiseLine").Create(b.ship).Error; err != nil {
				return err
			}
			id, out.Property = b.ship.ID, b.ship
		default:
			b.resort.ID = 0
			if err := tx.Omit("ResortCompany").Create(b.resort).Error; err != nil {
				return err
			}
			id, out.Property = b.resort.ID, b.resort
		}
		if err := replaceAmenities(tx, b.kind, id, b.amenityIDs); err != nil {
			return err
		}
		for i := range out.Venues {
			v := &out.Venues[i]
			v.SetOwner(b.kind, id)
			if err := checkVenue(tx, v); err != nil {
				return err
			}
			if err := tx.Omit("VenueType", "Ship", "Resort").Create(v).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate("compose "+string(b.kind), err)
	}
	if out.AmenityIDs == nil {
		out.AmenityIDs = []uint64{}
	}
	if out.Venues == nil {
		out.Venues = []model.Venue{}
	}
	return out, nil
}
