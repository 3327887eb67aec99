package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoProperty is returned by persisted venue operations before the
// parent property has an id.
var ErrNoProperty = errors.New("console: property has no id yet")

// ErrUnknownVenue is returned when a pending venue id is not staged.
var ErrUnknownVenue = errors.New("console: unknown pending venue")

// Venue is a venue as the console edits it.  Pending venues carry
// negative ids until the parent is saved.
type Venue struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	VenueTypeID int64   `json:"venueTypeId"`
	Description *string `json:"description"`
}

// PendingVenue is a venue staged for a property that does not exist yet.
type PendingVenue = Venue

// VenueManager edits the venues of one resort or ship.  In pending mode
// every method works on memory only.
type VenueManager struct {
	Client      *Client
	Kind        string
	PropertyID  int64
	PendingMode bool

	// OnPendingChange receives a copy of the staged list after each change.
	OnPendingChange func([]PendingVenue)

	venues []Venue
	nextID int64
}

// NewVenueManager returns a persisted-mode manager, or a pending-mode one
// when propertyID is zero.
func NewVenueManager(c *Client, kind string, propertyID int64) *VenueManager {
	return &VenueManager{Client: c, Kind: kind, PropertyID: propertyID, PendingMode: propertyID == 0}
}

func (m *VenueManager) base() (string, error) {
	if m.PropertyID <= 0 {
		return "", ErrNoProperty
	}
	return fmt.Sprintf("/api/admin/%ss/%d/venues", m.Kind, m.PropertyID), nil
}

// Venues returns the current list.
func (m *VenueManager) Venues() []Venue {
	return append([]Venue(nil), m.venues...)
}

// Load fetches the venues of the property.  In pending mode it is a no-op.
func (m *VenueManager) Load(ctx context.Context) error {
	if m.PendingMode {
		return nil
	}
	path, err := m.base()
	if err != nil {
		return err
	}
	list, err := List[Venue](ctx, m.Client, path)
	if err != nil {
		return err
	}
	m.venues = list
	return nil
}

// Add creates v, or stages it with the next negative id.
func (m *VenueManager) Add(ctx context.Context, v Venue) (Venue, error) {
	if m.PendingMode {
		m.nextID--
		v.ID = m.nextID
		m.venues = append(m.venues, v)
		m.pendingChanged()
		return v, nil
	}
	path, err := m.base()
	if err != nil {
		return Venue{}, err
	}
	v.ID = 0
	var out Venue
	if err := m.Client.Do(ctx, http.MethodPost, path, v, &out); err != nil {
		return Venue{}, err
	}
	m.venues = append(m.venues, out)
	return out, nil
}

// Update replaces the venue with v.ID.
func (m *VenueManager) Update(ctx context.Context, v Venue) (Venue, error) {
	i := m.index(v.ID)
	if m.PendingMode {
		if i < 0 {
			return Venue{}, ErrUnknownVenue
		}
		m.venues[i] = v
		m.pendingChanged()
		return v, nil
	}
	path, err := m.base()
	if err != nil {
		return Venue{}, err
	}
	var out Venue
	if err := m.Client.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", path, v.ID), v, &out); err != nil {
		return Venue{}, err
	}
	if i >= 0 {
		m.venues[i] = out
	}
	return out, nil
}

// Remove deletes the venue with id.
func (m *VenueManager) Remove(ctx context.Context, id int64) error {
	i := m.index(id)
	if m.PendingMode {
		if i < 0 {
			return ErrUnknownVenue
		}
		m.venues = append(m.venues[:i], m.venues[i+1:]...)
		m.pendingChanged()
		return nil
	}
	path, err := m.base()
	if err != nil {
		return err
	}
	if err := m.Client.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", path, id), nil, nil); err != nil {
		return err
	}
	if i >= 0 {
		m.venues = append(m.venues[:i], m.venues[i+1:]...)
	}
	return nil
}

func (m *VenueManager) index(id int64) int {
	for i, v := range m.venues {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (m *VenueManager) pendingChanged() {
	if m.OnPendingChange != nil {
		m.OnPendingChange(m.Venues())
	}
}
