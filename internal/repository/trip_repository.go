package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TripFilter narrows List.  Status filters on the computed status.
type TripFilter struct {
	Status   model.TripStatus
	ShipID   *uint64
	ResortID *uint64
}

type TripRepo struct {
	Table[model.Trip]
	Now func() time.Time
}

func NewTripRepo(db *gorm.DB) *TripRepo {
	return &TripRepo{Table: NewTable[model.Trip](db, "trip", "start_date DESC, id DESC"), Now: time.Now}
}

func (r *TripRepo) withStatus(t *model.Trip) {
	t.ComputedStatus = model.ComputeTripStatus(t.Flags(), r.Now())
}

// List returns trips newest first with computedStatus filled.
func (r *TripRepo) List(ctx context.Context, f TripFilter) ([]model.Trip, error) {
	var scopes []Scope
	if f.ShipID != nil {
		id := *f.ShipID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("ship_id = ?", id) })
	}
	if f.ResortID != nil {
		id := *f.ResortID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("resort_id = ?", id) })
	}
	trips, err := r.Table.List(ctx, scopes...)
	if err != nil {
		return nil, err
	}
	out := trips[:0]
	for i := range trips {
		r.withStatus(&trips[i])
		if f.Status != "" && trips[i].ComputedStatus != f.Status {
			continue
		}
		out = append(out, trips[i])
	}
	return out, nil
}

func (r *TripRepo) Get(ctx context.Context, id uint64) (*model.Trip, error) {
	t, err := r.Table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.withStatus(t)
	return t, nil
}

func (r *TripRepo) GetBySlug(ctx context.Context, s string) (*model.Trip, error) {
	var t model.Trip
	if err := r.DB.WithContext(ctx).Where("slug = ?", s).First(&t).Error; err != nil {
		return nil, translate("get trip by slug", err)
	}
	r.withStatus(&t)
	return &t, nil
}

// Create inserts t, deriving a unique slug from the name when none is given.
// An explicit slug that is already taken yields ErrConflict.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	if err := r.prepare(ctx, t); err != nil {
		return err
	}
	if err := r.Table.Create(ctx, t); err != nil {
		return err
	}
	r.withStatus(t)
	return nil
}

// Save updates t.  A cleared slug is re-derived from the name.
func (r *TripRepo) Save(ctx context.Context, t *model.Trip) error {
	if err := r.prepare(ctx, t); err != nil {
		return err
	}
	if err := r.Table.Save(ctx, t); err != nil {
		return err
	}
	r.withStatus(t)
	return nil
}

func (r *TripRepo) prepare(ctx context.Context, t *model.Trip) error {
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("endDate before startDate: %w", ErrInvalid)
	}
	t.Slug = strings.TrimSpace(t.Slug)
	if t.Slug != "" {
		t.Slug = slug.Make(t.Slug)
		return nil
	}
	s, err := r.uniqueSlug(ctx, slug.Make(t.Name), t.ID)
	if err != nil {
		return err
	}
	t.Slug = s
	return nil
}

// uniqueSlug appends -2, -3, ... to base until no other trip uses it.
func (r *TripRepo) uniqueSlug(ctx context.Context, base string, selfID uint64) (string, error) {
	if base == "" {
		base = "trip"
	}
	candidate := base
	for n := 2; ; n++ {
		var count int64
		err := r.DB.WithContext(ctx).Model(&model.Trip{}).
			Where("slug = ? AND id <> ?", candidate, selfID).Count(&count).Error
		if err != nil {
			return "", translate("slug lookup", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// Delete removes a trip and all of its children in one transaction.
func (r *TripRepo) Delete(ctx context.Context, id uint64) error {
	return translate("delete trip", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&model.ItineraryStop{}, &model.Event{}, &model.TripInfoSection{}, &model.TripTalent{}} {
			if err := tx.Where("trip_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Trip{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}
