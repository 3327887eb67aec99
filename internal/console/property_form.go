package console

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a successful Submit.
type Result struct {
	ID          int64
	Created     bool
	VenueErrors []error
}

// PropertyForm edits one resort or ship together with its amenity set and,
// for a new property, the venues staged before it was saved.
type PropertyForm struct {
	Client *Client
	Kind   string // "resort" or "ship"
	ID     int64  // zero while creating

	AmenityIDs []int64
	Venues     []Venue

	Log *log.Logger

	pending []PendingVenue
}

func NewPropertyForm(c *Client, kind string, id int64) *PropertyForm {
	return &PropertyForm{Client: c, Kind: kind, ID: id, Log: log.Default()}
}

func (f *PropertyForm) collection() string { return "/api/" + f.Kind + "s" }

// Open loads the current associations of an existing property.
func (f *PropertyForm) Open(ctx context.Context) error {
	if f.ID == 0 {
		return nil
	}
	var (
		amenities []Option
		venues    []Venue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		amenities, err = List[Option](gctx, f.Client, fmt.Sprintf("%s/%d/amenities", f.collection(), f.ID))
		return err
	})
	g.Go(func() error {
		var err error
		venues, err = List[Venue](gctx, f.Client, fmt.Sprintf("%s/%d/venues", f.collection(), f.ID))
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	f.AmenityIDs = f.AmenityIDs[:0]
	for _, a := range amenities {
		f.AmenityIDs = append(f.AmenityIDs, a.ID())
	}
	f.Venues = venues
	return nil
}

// StagePending replaces the venues to post after the property is created.
// It fits VenueManager.OnPendingChange.
func (f *PropertyForm) StagePending(v []PendingVenue) {
	f.pending = append([]PendingVenue(nil), v...)
}

func (f *PropertyForm) Pending() []PendingVenue { return f.pending }

// VenueManager returns a manager bound to this form: pending mode while
// the property is new, persisted mode otherwise.
func (f *PropertyForm) VenueManager() *VenueManager {
	m := NewVenueManager(f.Client, f.Kind, f.ID)
	if m.PendingMode {
		m.OnPendingChange = f.StagePending
	}
	return m
}

// Submit saves the property, then its amenities, then any staged venues.
// Only the property save can fail the submit.
func (f *PropertyForm) Submit(ctx context.Context, fields map[string]string) (Result, error) {
	payload := BuildPayload(fields, NumericFields[f.Kind])

	var saved struct {
		ID int64 `json:"id"`
	}
	res := Result{Created: f.ID == 0}
	if res.Created {
		if err := f.Client.Do(ctx, http.MethodPost, f.collection(), payload, &saved); err != nil {
			return Result{}, err
		}
		f.ID = saved.ID
	} else {
		if err := f.Client.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", f.collection(), f.ID), payload, &saved); err != nil {
			return Result{}, err
		}
	}
	res.ID = f.ID

	ids := f.AmenityIDs
	if ids == nil {
		ids = []int64{}
	}
	path := fmt.Sprintf("%s/%d/amenities", f.collection(), f.ID)
	if err := f.Client.Do(ctx, http.MethodPut, path, map[string][]int64{"amenityIds": ids}, nil); err != nil {
		f.logf("warning: %s %d saved but amenities were not: %v", f.Kind, f.ID, err)
	}

	if res.Created && len(f.pending) > 0 {
		venuesPath := fmt.Sprintf("/api/admin/%ss/%d/venues", f.Kind, f.ID)
		for _, v := range f.pending {
			v.ID = 0
			if err := f.Client.Do(ctx, http.MethodPost, venuesPath, v, nil); err != nil {
				f.logf("warning: venue %q not created: %v", v.Name, err)
				res.VenueErrors = append(res.VenueErrors, fmt.Errorf("venue %q: %w", v.Name, err))
			}
		}
		f.pending = nil
	}
	return res, nil
}

func (f *PropertyForm) logf(format string, args ...any) {
	if f.Log != nil {
		f.Log.Printf(format, args...)
	}
}
