package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/database"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
)

func TestEnsureSuperAdmin(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open("file:service_bootstrap?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	users := repository.NewUserRepo(db)

	created, err := EnsureSuperAdmin(ctx, users, config.BootstrapAdmin{Username: "root"}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, created, "incomplete settings create nothing")

	b := config.BootstrapAdmin{Username: "root", Email: "root@example.com", Password: "first-login-pass"}
	created, err = EnsureSuperAdmin(ctx, users, b, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.GetByLogin(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "first-login-pass"))

	created, err = EnsureSuperAdmin(ctx, users, b, bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, created, "runs only on an empty table")
}
