package repository

import (
	"context"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

type SettingRepo struct {
	Table[model.Setting]
}

func NewSettingRepo(db *gorm.DB) *SettingRepo {
	return &SettingRepo{Table: NewTable[model.Setting](db, "setting", "order_index ASC, label ASC")}
}

func inCategory(category string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("category = ?", category) }
}

// ListCategory returns a category ordered by orderIndex.  Inactive rows
// are skipped unless includeInactive is set.
func (r *SettingRepo) ListCategory(ctx context.Context, category string, includeInactive bool) ([]model.Setting, error) {
	scopes := []Scope{inCategory(category)}
	if !includeInactive {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("is_active = ?", true) })
	}
	return r.List(ctx, scopes...)
}

func (r *SettingRepo) GetByKey(ctx context.Context, category, key string) (*model.Setting, error) {
	var s model.Setting
	err := r.DB.WithContext(ctx).Scopes(inCategory(category)).Where(map[string]any{"key": key}).First(&s).Error
	if err != nil {
		return nil, translate("get setting", err)
	}
	return &s, nil
}

// Create inserts s.  A key already used in the category yields ErrConflict.
func (r *SettingRepo) Create(ctx context.Context, s *model.Setting) error {
	s.Category = strings.TrimSpace(s.Category)
	s.Key = strings.TrimSpace(s.Key)
	return r.Table.Create(ctx, s)
}

func (r *SettingRepo) DeleteByKey(ctx context.Context, category, key string) error {
	res := r.DB.WithContext(ctx).Scopes(inCategory(category)).Where(map[string]any{"key": key}).Delete(&model.Setting{})
	if res.Error != nil {
		return translate("delete setting", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
