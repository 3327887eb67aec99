package model

import (
	"strings"
	"time"
)

// TripStatus is the status shown for a trip.  Draft, preview and archived
// come from explicit flags; the other three are computed from the dates.
type TripStatus string

const (
	TripStatusDraft    TripStatus = "draft"
	TripStatusPreview  TripStatus = "preview"
	TripStatusOngoing  TripStatus = "ongoing" // the "current" bucket
	TripStatusUpcoming TripStatus = "upcoming"
	TripStatusPast     TripStatus = "past"
	TripStatusArchived TripStatus = "archived"
)

// PreviewTripStatusID is the legacy trip_status_id that marks a preview trip.
const PreviewTripStatusID = 5

// StatusFlags are the stored inputs of the status computation.
type StatusFlags struct {
	Status       string
	TripStatusID *int
	StartDate    time.Time
	EndDate      time.Time
}

// Flags extracts the status inputs from t.
func (t *Trip) Flags() StatusFlags {
	return StatusFlags{Status: t.Status, TripStatusID: t.TripStatusID, StartDate: t.StartDate, EndDate: t.EndDate}
}

// ComputeTripStatus derives the displayed status.  Explicit flags win over
// date math: draft, then preview (flag or trip_status_id 5), then archived.
// Dates compare by calendar day in UTC.
func ComputeTripStatus(f StatusFlags, now time.Time) TripStatus {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	switch {
	case status == string(TripStatusDraft):
		return TripStatusDraft
	case status == string(TripStatusPreview) || (f.TripStatusID != nil && *f.TripStatusID == PreviewTripStatusID):
		return TripStatusPreview
	case status == string(TripStatusArchived):
		return TripStatusArchived
	}
	today := day(now)
	if today.Before(day(f.StartDate)) {
		return TripStatusUpcoming
	}
	if today.After(day(f.EndDate)) {
		return TripStatusPast
	}
	return TripStatusOngoing
}

// TripStatusRank is the sort priority used by status-sorted lists.
func TripStatusRank(s TripStatus) int {
	switch s {
	case TripStatusDraft:
		return 0
	case TripStatusPreview:
		return 1
	case TripStatusOngoing:
		return 2
	case TripStatusUpcoming:
		return 3
	case TripStatusPast:
		return 4
	case TripStatusArchived:
		return 5
	}
	return 6
}

func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
