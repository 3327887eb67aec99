package handler

import (
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// TripHandler serves /api/trips and its /api/cruises alias.
type TripHandler struct {
	Trips  *repository.TripRepo
	Talent *repository.TalentRepo
}

func NewTripHandler(trips *repository.TripRepo, talent *repository.TalentRepo) *TripHandler {
	return &TripHandler{Trips: trips, Talent: talent}
}

// List accepts ?status=, ?shipId= and ?resortId=.
func (h *TripHandler) List(c echo.Context) error {
	var f repository.TripFilter
	var err error
	if s := c.QueryParam("status"); s != "" {
		f.Status = model.TripStatus(s)
	}
	if f.ShipID, err = parseOptionalID(c, "shipId"); err != nil {
		return respondError(c, err)
	}
	if f.ResortID, err = parseOptionalID(c, "resortId"); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Trips.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *TripHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Trips.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) GetBySlug(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Trips.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Create(c echo.Context) error {
	var t model.Trip
	if err := bindOnto(c, &t); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&t); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Trips.Create(ctx, &t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TripHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Trips.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, t); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(t); err != nil {
		return respondError(c, err)
	}
	if err := h.Trips.Save(ctx, t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Trips.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTalent serves GET /api/trips/:id/talent.
func (h *TripHandler) ListTalent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Talent.ListForTrip(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

// ReplaceTalent serves PUT /api/trips/:id/talent {talentIds}.
func (h *TripHandler) ReplaceTalent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		TalentIDs []uint64 `json:"talentIds"`
	}
	if err := c.Bind(&body); err != nil {
		return respondError(c, errBadBody)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Talent.ReplaceForTrip(ctx, id, body.TalentIDs); err != nil {
		return respondError(c, err)
	}
	list, err := h.Talent.ListForTrip(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}
