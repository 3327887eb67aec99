package service

import (
	"context"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
)

// EnsureSuperAdmin creates the bootstrap super admin when the users table
// is empty.  It reports whether a user was created.
func EnsureSuperAdmin(ctx context.Context, users *repository.UserRepo, b config.BootstrapAdmin, cost int) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}
	n, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := utils.HashPassword(b.Password, cost)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	u := model.User{
		Username:     b.Username,
		Email:        b.Email,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, &u); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}
