package console

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Item is a pickable reference entity.
type Item interface {
	ID() int64
	Label() string
}

// Option is the {id, name} shape shared by every lookup list.
type Option struct {
	OptionID int64  `json:"id"`
	Name     string `json:"name"`
}

func (o Option) ID() int64      { return o.OptionID }
func (o Option) Label() string { return o.Name }

type (
	FetchFunc[T Item]  func(ctx context.Context) ([]T, error)
	CreateFunc[T Item] func(ctx context.Context, label string) (T, error)
)

// ErrNoCreate is returned by Create when the selector has no CreateFunc or
// the term cannot be created.
var ErrNoCreate = errors.New("console: create not available for this term")

// Selector holds the candidates of one reference field and the current
// selection.  The full list is fetched once; filtering happens in memory.
type Selector[T Item] struct {
	Multi    bool
	Fetcher  FetchFunc[T]
	Creator  CreateFunc[T]
	OnChange func(selected []int64)

	items    []T
	selected []int64
	err      error
	loaded   bool
}

// NewSelector returns a selector seeded with an initial selection.
func NewSelector[T Item](multi bool, fetch FetchFunc[T], selected ...int64) *Selector[T] {
	return &Selector[T]{Multi: multi, Fetcher: fetch, selected: append([]int64(nil), selected...)}
}

// Load fetches the candidate list once.  A failed fetch is kept in Err.
func (s *Selector[T]) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.Retry(ctx)
}

// Retry fetches the list again regardless of earlier state.
func (s *Selector[T]) Retry(ctx context.Context) error {
	items, err := s.Fetcher(ctx)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.Set(items)
	return nil
}

// Set installs a fetched list.  Callers that fetch off the UI goroutine
// hand the result over with Set or Fail.
func (s *Selector[T]) Set(items []T) {
	s.items, s.err, s.loaded = items, nil, true
}

// Fail records a failed fetch.
func (s *Selector[T]) Fail(err error) { s.err = err }

func (s *Selector[T]) Err() error   { return s.err }
func (s *Selector[T]) Loaded() bool { return s.loaded }
func (s *Selector[T]) Items() []T   { return s.items }

func (s *Selector[T]) Selected() []int64 {
	return append([]int64(nil), s.selected...)
}

// Filter returns the candidates whose label contains term, ignoring case.
func (s *Selector[T]) Filter(term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.items
	}
	var out []T
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Label()), term) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Selector[T]) IsSelected(id int64) bool {
	for _, v := range s.selected {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle adds or removes id.  In single mode it behaves like Choose.
func (s *Selector[T]) Toggle(id int64) {
	if !s.Multi {
		s.Choose(id)
		return
	}
	if s.IsSelected(id) {
		out := s.selected[:0]
		for _, v := range s.selected {
			if v != id {
				out = append(out, v)
			}
		}
		s.selected = out
	} else {
		s.selected = append(s.selected, id)
	}
	s.changed()
}

// Choose makes id the only selection.
func (s *Selector[T]) Choose(id int64) {
	s.selected = []int64{id}
	s.changed()
}

// Clear empties the selection.
func (s *Selector[T]) Clear() {
	s.selected = nil
	s.changed()
}

func (s *Selector[T]) changed() {
	if s.OnChange != nil {
		s.OnChange(s.Selected())
	}
}

// CanCreate reports whether term may be offered as a new entity: a create
// func exists, the term is not blank and no candidate has that exact label.
func (s *Selector[T]) CanCreate(term string) bool {
	term = strings.TrimSpace(term)
	if s.Creator == nil || term == "" {
		return false
	}
	for _, it := range s.items {
		if strings.EqualFold(it.Label(), term) {
			return false
		}
	}
	return true
}

// Create creates term through the create func, appends it and selects
// it.  On error nothing changes.
func (s *Selector[T]) Create(ctx context.Context, term string) (T, error) {
	var zero T
	if !s.CanCreate(term) {
		return zero, ErrNoCreate
	}
	it, err := s.Creator(ctx, strings.TrimSpace(term))
	if err != nil {
		return zero, err
	}
	s.Accept(it)
	return it, nil
}

// Accept appends a newly created item and selects it.
func (s *Selector[T]) Accept(it T) {
	s.items = append(s.items, it)
	if s.Multi {
		s.selected = append(s.selected, it.ID())
		s.changed()
		return
	}
	s.Choose(it.ID())
}

// Lookup paths with a public list and an editor-gated create.
const (
	AmenitiesPath       = "/api/amenities"
	VenueTypesPath      = "/api/venue-types"
	ResortsPath         = "/api/resorts"
	ResortCompaniesPath = "/api/resort-companies"
	CruiseLinesPath     = "/api/cruise-lines"
)

// FetchOptions lists path as Options.
func FetchOptions(c *Client, path string) FetchFunc[Option] {
	return func(ctx context.Context) ([]Option, error) { return List[Option](ctx, c, path) }
}

// CreateOption POSTs {"name": label} to path.
func CreateOption(c *Client, path string) CreateFunc[Option] {
	return func(ctx context.Context, label string) (Option, error) {
		var o Option
		err := c.Do(ctx, http.MethodPost, path, map[string]string{"name": label}, &o)
		return o, err
	}
}

// NewOptionSelector wires a selector to a lookup path.
func NewOptionSelector(c *Client, path string, multi, creatable bool, selected ...int64) *Selector[Option] {
	s := NewSelector(multi, FetchOptions(c, path), selected...)
	if creatable {
		s.Creator = CreateOption(c, path)
	}
	return s
}
