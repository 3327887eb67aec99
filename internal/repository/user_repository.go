package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"gorm.io/gorm"
)

type UserRepo struct {
	Table[model.User]
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{Table: NewTable[model.User](db, "user", "username ASC")}
}

// Normalize lower-cases the email and trims both login identifiers.
func normalizeUser(u *model.User) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// Create inserts u.  Duplicate username or email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	normalizeUser(u)
	return r.Table.Create(ctx, u)
}

// Save updates u.  Duplicate username or email yields ErrConflict.
func (r *UserRepo) Save(ctx context.Context, u *model.User) error {
	normalizeUser(u)
	return r.Table.Save(ctx, u)
}

// GetByLogin fetches a user by username or (case-insensitive) email.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.TrimSpace(login)
	var u model.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&u).Error
	if err != nil {
		return nil, translate("get user by login", err)
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return &u, nil
}

// TouchLastLogin stamps last_login without touching updated_at.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("last_login", at).Error
	return translate("touch last login", err)
}

// SetPassword replaces the stored hash.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, hash string) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return translate("set password", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
