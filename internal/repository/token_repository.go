package repository

import (
	"context"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

// TokenRepo persists refresh and password-reset tokens by hash.
type TokenRepo struct{ DB *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	row := model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
	return translate("store refresh", r.DB.WithContext(ctx).Create(&row).Error)
}

// ConsumeRefresh revokes a live refresh token and returns its user.  The
// conditional update is the check, so of two concurrent rotations of the
// same token exactly one succeeds.
func (r *TokenRepo) ConsumeRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&model.RefreshToken{}).
			Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
			Update("revoked_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var t model.RefreshToken
		if err := tx.Select("user_id").Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
			return err
		}
		userID = t.UserID
		return nil
	})
	if err != nil {
		return 0, translate("consume refresh", err)
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	err := r.DB.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", time.Now().UTC()).Error
	return translate("revoke refresh", err)
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	err := r.DB.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now().UTC()).Error
	return translate("revoke user refresh", err)
}

// StoreReset inserts a password-reset token hash.
func (r *TokenRepo) StoreReset(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	row := model.PasswordResetToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
	return translate("store reset", r.DB.WithContext(ctx).Create(&row).Error)
}

// ConsumeReset marks a valid reset token used and returns its user.  A
// token can be consumed once.
func (r *TokenRepo) ConsumeReset(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&model.PasswordResetToken{}).
			Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, now).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var t model.PasswordResetToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
			return err
		}
		userID = t.UserID
		return nil
	})
	if err != nil {
		return 0, translate("consume reset", err)
	}
	return userID, nil
}

// PurgeExpired deletes refresh tokens that are revoked or expired and
// reset tokens that are used or expired.  It returns the rows removed.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	db := r.DB.WithContext(ctx)
	a := db.Where("revoked_at IS NOT NULL OR expires_at < ?", now).Delete(&model.RefreshToken{})
	if a.Error != nil {
		return 0, translate("purge refresh", a.Error)
	}
	b := db.Where("used_at IS NOT NULL OR expires_at < ?", now).Delete(&model.PasswordResetToken{})
	if b.Error != nil {
		return a.RowsAffected, translate("purge reset", b.Error)
	}
	return a.RowsAffected + b.RowsAffected, nil
}
