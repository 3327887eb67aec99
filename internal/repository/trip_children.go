package repository

import (
	"context"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// TripChild is a row owned by a trip.
type TripChild interface {
	model.ItineraryStop | model.Event | model.TripInfoSection
}

// TripChildRepo serves the itinerary, events and info sections of a trip.
type TripChildRepo[T TripChild] struct {
	Table[T]
}

func NewItineraryRepo(db *gorm.DB) *TripChildRepo[model.ItineraryStop] {
	return &TripChildRepo[model.ItineraryStop]{Table: NewTable[model.ItineraryStop](db, "itinerary stop", "day ASC, order_index ASC, id ASC")}
}

func NewEventRepo(db *gorm.DB) *TripChildRepo[model.Event] {
	return &TripChildRepo[model.Event]{Table: NewTable[model.Event](db, "event", "date ASC, time ASC, id ASC")}
}

func NewInfoSectionRepo(db *gorm.DB) *TripChildRepo[model.TripInfoSection] {
	return &TripChildRepo[model.TripInfoSection]{Table: NewTable[model.TripInfoSection](db, "info section", "order_index ASC, id ASC")}
}

// ListByTrip returns the children of tripID; ErrNotFound when the trip
// does not exist.
func (r *TripChildRepo[T]) ListByTrip(ctx context.Context, tripID uint64) ([]T, error) {
	if err := r.requireTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return r.List(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("trip_id = ?", tripID) })
}

// CreateForTrip inserts v, which must already carry tripID.  ErrNotFound
// when the trip does not exist.
func (r *TripChildRepo[T]) CreateForTrip(ctx context.Context, tripID uint64, v *T) error {
	if err := r.requireTrip(ctx, tripID); err != nil {
		return err
	}
	return r.Create(ctx, v)
}

func (r *TripChildRepo[T]) requireTrip(ctx context.Context, tripID uint64) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Trip{}).Where("id = ?", tripID).Count(&n).Error; err != nil {
		return translate("lookup trip", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
