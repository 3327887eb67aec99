//go:build integration

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/database"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tripguides"),
		postgres.WithUsername("tripguides"),
		postgres.WithPassword("tripguides"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	url, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := database.Open(url)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgresCatalog(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	props := NewPropertyRepo(db)
	amenities := NewAmenityRepo(db)

	pool := model.Amenity{Name: "Pool"}
	require.NoError(t, amenities.Create(ctx, &pool))
	err := amenities.Create(ctx, &model.Amenity{Name: "Pool"})
	assert.ErrorIs(t, err, ErrConflict)

	res := model.Resort{Name: "Test Resort", Capacity: ptr(400)}
	require.NoError(t, props.Resorts.Create(ctx, &res))

	for range 2 {
		got, err := props.ReplaceAmenities(ctx, model.PropertyResort, res.ID, []uint64{pool.ID})
		require.NoError(t, err)
		assert.Equal(t, []uint64{pool.ID}, got)
	}
	linked, err := props.Amenities(ctx, model.PropertyResort, res.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)

	err = translate("link", db.Create(&model.ResortAmenity{ResortID: res.ID, AmenityID: 987654}).Error)
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = props.ReplaceAmenities(ctx, model.PropertyResort, res.ID, nil)
	require.NoError(t, err)
	linked, err = props.Amenities(ctx, model.PropertyResort, res.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestPostgresCompose(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	props := NewPropertyRepo(db)

	vt := model.VenueType{Name: "Theater"}
	require.NoError(t, db.Create(&vt).Error)
	ids := seedAmenities(t, db, "Spa", "Gym")

	out, err := props.NewShipBuilder(&model.Ship{Name: "Brilliant Lady"}).
		SetAmenities(ids).
		StageVenue(model.Venue{Name: "Red Room", VenueTypeID: vt.ID}).
		Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PropertyShip, out.Kind)
	assert.ElementsMatch(t, ids, out.AmenityIDs)
	require.Len(t, out.Venues, 1)

	_, err = props.NewShipBuilder(&model.Ship{Name: "Broken"}).
		StageVenue(model.Venue{Name: "Nowhere", VenueTypeID: 424242}).
		Commit(ctx)
	require.Error(t, err)

	var ships int64
	require.NoError(t, db.Model(&model.Ship{}).Count(&ships).Error)
	assert.Equal(t, int64(1), ships)
}

func TestPostgresConcurrentRefreshRotation(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	users := NewUserRepo(db)
	tokens := NewTokenRepo(db)
	u := model.User{Username: "dave", Email: "dave@example.com", PasswordHash: "x", Role: model.RoleViewer, IsActive: true}
	require.NoError(t, users.Create(ctx, &u))
	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, "shared", time.Now().UTC().Add(time.Hour)))

	var wins, misses atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tokens.ConsumeRefresh(ctx, "shared")
			switch {
			case err == nil:
				wins.Add(1)
			case IsNotFound(err):
				misses.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), misses.Load())
}
