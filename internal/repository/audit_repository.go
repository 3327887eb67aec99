package repository

import (
	"context"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// AuditRepo stores audit events written by the audit consumer.
type AuditRepo struct{ DB *gorm.DB }

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{DB: db} }

func (r *AuditRepo) Insert(ctx context.Context, l *model.AuditLog) error {
	return translate("insert audit log", r.DB.WithContext(ctx).Create(l).Error)
}

// Recent returns up to limit entries, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := make([]model.AuditLog, 0, limit)
	err := r.DB.WithContext(ctx).Order("at DESC, id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, translate("list audit logs", err)
	}
	return out, nil
}

// PurgeBefore deletes entries older than cutoff.
func (r *AuditRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("at < ?", cutoff).Delete(&model.AuditLog{})
	return res.RowsAffected, translate("purge audit logs", res.Error)
}
