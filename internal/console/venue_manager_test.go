package console

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingVenuesStayLocal(t *testing.T) {
	c, calls := countingServer(t)
	ctx := context.Background()

	var staged []PendingVenue
	m := NewVenueManager(c, "ship", 0)
	require.True(t, m.PendingMode)
	m.OnPendingChange = func(v []PendingVenue) { staged = v }

	a, err := m.Add(ctx, Venue{Name: "Main Theater", VenueTypeID: 1})
	require.NoError(t, err)
	b, err := m.Add(ctx, Venue{Name: "Pool Deck", VenueTypeID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), a.ID)
	assert.Equal(t, int64(-2), b.ID)

	b.Name = "Lido Deck"
	_, err = m.Update(ctx, b)
	require.NoError(t, err)
	require.NoError(t, m.Remove(ctx, a.ID))
	require.NoError(t, m.Load(ctx))

	assert.ErrorIs(t, m.Remove(ctx, 99), ErrUnknownVenue)
	require.Len(t, staged, 1)
	assert.Equal(t, "Lido Deck", staged[0].Name)
	assert.Equal(t, int32(0), calls.Load())
}

func TestPersistedVenuesNeedProperty(t *testing.T) {
	c, calls := countingServer(t)
	m := &VenueManager{Client: c, Kind: "resort"}

	assert.ErrorIs(t, m.Load(context.Background()), ErrNoProperty)
	_, err := m.Add(context.Background(), Venue{Name: "Bar", VenueTypeID: 1})
	assert.ErrorIs(t, err, ErrNoProperty)
	assert.Equal(t, int32(0), calls.Load())
}

func TestPersistedVenueManager(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	var vt, ship Option
	require.NoError(t, c.Do(ctx, http.MethodPost, VenueTypesPath, map[string]string{"name": "Bar"}, &vt))
	require.NoError(t, c.Do(ctx, http.MethodPost, "/api/ships", map[string]string{"name": "Brilliant Lady"}, &ship))

	m := NewVenueManager(c, "ship", ship.ID())
	require.False(t, m.PendingMode)

	v, err := m.Add(ctx, Venue{Name: "Sip Club", VenueTypeID: vt.ID()})
	require.NoError(t, err)
	assert.Positive(t, v.ID)

	v.Name = "Sip Club Lounge"
	_, err = m.Update(ctx, v)
	require.NoError(t, err)

	fresh := NewVenueManager(c, "ship", ship.ID())
	require.NoError(t, fresh.Load(ctx))
	require.Len(t, fresh.Venues(), 1)
	assert.Equal(t, "Sip Club Lounge", fresh.Venues()[0].Name)

	require.NoError(t, fresh.Remove(ctx, v.ID))
	assert.Empty(t, fresh.Venues())
	err = fresh.Remove(ctx, v.ID)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
