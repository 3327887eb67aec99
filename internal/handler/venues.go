package handler

import (
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// VenueHandler serves /api/venues.  Each venue belongs to exactly one of a
// ship or a resort.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

func NewVenueHandler(v *repository.VenueRepo) *VenueHandler { return &VenueHandler{Venues: v} }

// List accepts ?shipId=, ?resortId= and ?venueTypeId=.
func (h *VenueHandler) List(c echo.Context) error {
	var f repository.VenueFilter
	var err error
	if f.ShipID, err = parseOptionalID(c, "shipId"); err != nil {
		return respondError(c, err)
	}
	if f.ResortID, err = parseOptionalID(c, "resortId"); err != nil {
		return respondError(c, err)
	}
	if f.VenueTypeID, err = parseOptionalID(c, "venueTypeId"); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Venues.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *VenueHandler) Stats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Venues.Stats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *VenueHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Venues.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *VenueHandler) Create(c echo.Context) error {
	var v model.Venue
	if err := bindOnto(c, &v, "venueType"); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&v); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Venues.Create(ctx, &v); err != nil {
		return respondError(c, err)
	}
	out, err := h.Venues.Get(ctx, v.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *VenueHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Venues.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, v, "venueType"); err != nil {
		return respondError(c, err)
	}
	v.VenueType = nil
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	if err := h.Venues.Save(ctx, v); err != nil {
		return respondError(c, err)
	}
	out, err := h.Venues.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Venues.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
