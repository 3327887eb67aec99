package handler

import (
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// tripRow is a pointer to a trip child that can be attached to a trip.
type tripRow[T any] interface {
	*T
	SetTripID(id uint64)
}

// TripChildHandler serves one kind of trip child: itinerary stops, events
// or info sections.  Listing and creating go through /api/trips/:id/...;
// updates and deletes address the child by its own id.
type TripChildHandler[T repository.TripChild, P tripRow[T]] struct {
	Repo *repository.TripChildRepo[T]
}

func NewTripChildHandler[T repository.TripChild, P tripRow[T]](repo *repository.TripChildRepo[T]) *TripChildHandler[T, P] {
	return &TripChildHandler[T, P]{Repo: repo}
}

func (h *TripChildHandler[T, P]) List(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Repo.ListByTrip(ctx, tripID)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *TripChildHandler[T, P]) Create(c echo.Context) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	v := new(T)
	if err := bindOnto(c, v, "tripId"); err != nil {
		return respondError(c, err)
	}
	P(v).SetTripID(tripID)
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Repo.CreateForTrip(ctx, tripID, v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *TripChildHandler[T, P]) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Repo.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, v, "tripId"); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	if err := h.Repo.Save(ctx, v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *TripChildHandler[T, P]) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Repo.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
