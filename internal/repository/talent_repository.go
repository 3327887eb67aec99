package repository

import (
	"context"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

type TalentRepo struct {
	Table[model.Talent]
}

func NewTalentRepo(db *gorm.DB) *TalentRepo {
	return &TalentRepo{Table: NewTable[model.Talent](db, "talent", "name ASC")}
}

// ListForTrip returns the talent linked to tripID, by name.
func (r *TalentRepo) ListForTrip(ctx context.Context, tripID uint64) ([]model.Talent, error) {
	if err := requireRow(r.DB.WithContext(ctx), &model.Trip{}, tripID, ErrNotFound); err != nil {
		return nil, translate("lookup trip", err)
	}
	return r.List(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Select("talents.*").Joins("JOIN trip_talents ON trip_talents.talent_id = talents.id").
			Where("trip_talents.trip_id = ?", tripID)
	})
}

// ReplaceForTrip makes talentIDs the exact set linked to tripID.
func (r *TalentRepo) ReplaceForTrip(ctx context.Context, tripID uint64, talentIDs []uint64) error {
	ids := dedupe(talentIDs)
	return translate("replace trip talent", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &model.Trip{}, tripID, ErrNotFound); err != nil {
			return err
		}
		if err := requireAll(tx, &model.Talent{}, ids); err != nil {
			return fmt.Errorf("talent: %w", err)
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.TripTalent{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		rows := make([]model.TripTalent, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, model.TripTalent{TripID: tripID, TalentID: id})
		}
		return tx.Create(&rows).Error
	}))
}
