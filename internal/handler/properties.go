package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// propertyStore deletes through PropertyRepo so venues and amenity links
// go with the property.
type propertyStore[T any] struct {
	repository.Table[T]
	kind  model.PropertyKind
	props *repository.PropertyRepo
}

func (s propertyStore[T]) Delete(ctx context.Context, id uint64) error {
	return s.props.Delete(ctx, s.kind, id)
}

// PropertyHandler serves the routes shared by resorts and ships: stats,
// amenity links, venue lists and the compose builder.  CRUD goes through
// Resorts/Ships.
type PropertyHandler struct {
	Kind   model.PropertyKind
	Props  *repository.PropertyRepo
	Venues *repository.VenueRepo

	Resorts *Resource[model.Resort]
	Ships   *Resource[model.Ship]
}

func NewPropertyHandler(kind model.PropertyKind, props *repository.PropertyRepo, venues *repository.VenueRepo) *PropertyHandler {
	return &PropertyHandler{
		Kind:    kind,
		Props:   props,
		Venues:  venues,
		Resorts: NewResource[model.Resort](propertyStore[model.Resort]{Table: props.Resorts, kind: model.PropertyResort, props: props}),
		Ships:   NewResource[model.Ship](propertyStore[model.Ship]{Table: props.Ships, kind: model.PropertyShip, props: props}),
	}
}

// CRUD returns the handlers for this handler's kind.
func (h *PropertyHandler) CRUD() (list, get, create, update, del echo.HandlerFunc) {
	if h.Kind == model.PropertyShip {
		return h.Ships.List, h.Ships.Get, h.Ships.Create, h.Ships.Update, h.Ships.Delete
	}
	return h.Resorts.List, h.Resorts.Get, h.Resorts.Create, h.Resorts.Update, h.Resorts.Delete
}

func (h *PropertyHandler) Stats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Props.Stats(ctx, h.Kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// GetAmenities serves GET /api/{kind}s/:id/amenities.
func (h *PropertyHandler) GetAmenities(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Props.Amenities(ctx, h.Kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

// PutAmenities replaces the amenity set with {amenityIds}.  An empty or
// missing list clears it.
func (h *PropertyHandler) PutAmenities(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		AmenityIDs []uint64 `json:"amenityIds"`
	}
	if err := c.Bind(&body); err != nil {
		return respondError(c, errBadBody)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if _, err := h.Props.ReplaceAmenities(ctx, h.Kind, id, body.AmenityIDs); err != nil {
		return respondError(c, err)
	}
	list, err := h.Props.Amenities(ctx, h.Kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

// GetVenues serves GET /api/{kind}s/:id/venues and the admin list.
func (h *PropertyHandler) GetVenues(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Venues.ListForProperty(ctx, h.Kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

// venueInput is the writable part of a venue.
type venueInput struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name" validate:"required,max=255"`
	VenueTypeID uint64  `json:"venueTypeId" validate:"required"`
	Description *string `json:"description"`
}

func (in venueInput) venue() model.Venue {
	return model.Venue{ID: in.ID, Name: in.Name, VenueTypeID: in.VenueTypeID, Description: in.Description}
}

// PutVenues replaces the full venue list with {venues: [...]}.
func (h *PropertyHandler) PutVenues(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Venues []venueInput `json:"venues" validate:"dive"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return respondError(c, err)
	}
	venues := make([]model.Venue, 0, len(body.Venues))
	for _, in := range body.Venues {
		venues = append(venues, in.venue())
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Venues.ReplaceForProperty(ctx, h.Kind, id, venues)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

// CreateVenue serves POST /api/admin/{kind}s/:id/venues.
func (h *PropertyHandler) CreateVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in venueInput
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	v := in.venue()
	v.ID = 0
	v.SetOwner(h.Kind, id)
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Props.Exists(ctx, h.Kind, id); err != nil {
		return respondError(c, err)
	}
	if err := h.Venues.Create(ctx, &v); err != nil {
		return respondError(c, err)
	}
	out, err := h.Venues.Get(ctx, v.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// UpdateVenue serves PUT /api/admin/{kind}s/:id/venues/:venueId.
func (h *PropertyHandler) UpdateVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	venueID, err := parseID(c, "venueId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Venues.GetForProperty(ctx, h.Kind, id, venueID)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, v, "shipId", "resortId", "venueType"); err != nil {
		return respondError(c, err)
	}
	v.VenueType = nil
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	if err := h.Venues.Save(ctx, v); err != nil {
		return respondError(c, err)
	}
	out, err := h.Venues.Get(ctx, v.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteVenue serves DELETE /api/admin/{kind}s/:id/venues/:venueId.
func (h *PropertyHandler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	venueID, err := parseID(c, "venueId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Venues.DeleteForProperty(ctx, h.Kind, id, venueID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Compose serves POST /api/admin/{kind}s/compose: the property, its
// amenity set and its venues are written in one transaction.
func (h *PropertyHandler) Compose(c echo.Context) error {
	var body struct {
		Property   json.RawMessage `json:"property"`
		AmenityIDs []uint64        `json:"amenityIds"`
		Venues     []venueInput    `json:"venues" validate:"dive"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return respondError(c, err)
	}
	if len(body.Property) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "property is required"})
	}

	var b *repository.PropertyBuilder
	switch h.Kind {
	case model.PropertyShip:
		var s model.Ship
		if err := json.Unmarshal(body.Property, &s); err != nil {
			return respondError(c, errBadBody)
		}
		if err := c.Validate(&s); err != nil {
			return respondError(c, err)
		}
		b = h.Props.NewShipBuilder(&s)
	default:
		var r model.Resort
		if err := json.Unmarshal(body.Property, &r); err != nil {
			return respondError(c, errBadBody)
		}
		if err := c.Validate(&r); err != nil {
			return respondError(c, err)
		}
		b = h.Props.NewResortBuilder(&r)
	}
	b.SetAmenities(body.AmenityIDs)
	for _, in := range body.Venues {
		b.StageVenue(in.venue())
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := b.Commit(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
