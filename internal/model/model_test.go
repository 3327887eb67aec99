package model

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTripStatus(t *testing.T) {
	now := time.Date(2025, 7, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC) }
	five := PreviewTripStatusID

	cases := []struct {
		name string
		in   StatusFlags
		want TripStatus
	}{
		{"draft wins over dates", StatusFlags{Status: "draft", StartDate: day(1), EndDate: day(2)}, TripStatusDraft},
		{"preview flag", StatusFlags{Status: "Preview", StartDate: day(20), EndDate: day(25)}, TripStatusPreview},
		{"preview by status id", StatusFlags{Status: "published", TripStatusID: &five, StartDate: day(1), EndDate: day(2)}, TripStatusPreview},
		{"archived", StatusFlags{Status: "archived", StartDate: day(20), EndDate: day(25)}, TripStatusArchived},
		{"upcoming", StatusFlags{StartDate: day(11), EndDate: day(15)}, TripStatusUpcoming},
		{"starts today", StatusFlags{StartDate: day(10), EndDate: day(15)}, TripStatusOngoing},
		{"ends today", StatusFlags{StartDate: day(1), EndDate: day(10)}, TripStatusOngoing},
		{"past", StatusFlags{StartDate: day(1), EndDate: day(9)}, TripStatusPast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeTripStatus(tc.in, now))
		})
	}
}

func TestTripStatusRankOrder(t *testing.T) {
	in := []TripStatus{TripStatusPast, TripStatusArchived, TripStatusUpcoming, TripStatusDraft, TripStatusOngoing, TripStatusPreview}
	sort.SliceStable(in, func(i, j int) bool { return TripStatusRank(in[i]) < TripStatusRank(in[j]) })
	assert.Equal(t, []TripStatus{TripStatusDraft, TripStatusPreview, TripStatusOngoing, TripStatusUpcoming, TripStatusPast, TripStatusArchived}, in)
	assert.Greater(t, TripStatusRank("bogus"), TripStatusRank(TripStatusArchived))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Content_Editor ")
	assert.True(t, ok)
	assert.Equal(t, RoleContentEditor, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestRoleGatesNest(t *testing.T) {
	gates := [][]Role{SuperAdminRoles, TripAdminRoles, ContentEditorRoles, MediaManagerRoles, AuthenticatedRoles}
	for i := 1; i < len(gates); i++ {
		for _, r := range gates[i-1] {
			assert.Contains(t, gates[i], r)
		}
		assert.Greater(t, len(gates[i]), len(gates[i-1]))
	}
}

func TestVenueOwner(t *testing.T) {
	var v Venue
	assert.False(t, v.HasSingleOwner())
	v.SetOwner(PropertyShip, 3)
	assert.True(t, v.HasSingleOwner())
	v.SetOwner(PropertyResort, 4)
	assert.Nil(t, v.ShipID)
	assert.Equal(t, uint64(4), *v.ResortID)

	k, ok := ParsePropertyKind("ships")
	assert.True(t, ok)
	assert.Equal(t, PropertyShip, k)
}
