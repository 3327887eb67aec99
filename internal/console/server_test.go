package console

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/database"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/router"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
)

const adminPassword = "console-pass-1"

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// newAPI starts the real API on an in-memory database and returns a
// client logged in as a super admin.
func newAPI(t *testing.T) *Client {
	t.Helper()
	db, err := database.Open("file:console_" + nonWord.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	hash, err := utils.HashPassword(adminPassword, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: hash,
		Role: model.RoleSuperAdmin, IsActive: true,
	}).Error)

	cfg := config.Config{
		Env:              "test",
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTLMin:     15,
		RefreshTTLDays:   7,
		BcryptCost:       bcrypt.MinCost,
	}
	e := router.New(router.NewHandlers(db, router.Deps{Config: cfg}), router.Options{JWTSecret: cfg.JWTSecret})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	require.NoError(t, c.Login(context.Background(), "admin", adminPassword))
	return c
}

// countingServer fails the test on nothing; it only counts requests.
func countingServer(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n.Add(1)
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "tok"), &n
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
