package handler

import (
	"context"
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// store is the CRUD surface a Resource needs; repository.Table and the
// entity repositories embedding it satisfy it.
type store[T any] interface {
	List(ctx context.Context, scopes ...repository.Scope) ([]T, error)
	Get(ctx context.Context, id uint64) (*T, error)
	Create(ctx context.Context, v *T) error
	Save(ctx context.Context, v *T) error
	Delete(ctx context.Context, id uint64) error
}

// Resource serves list/get/create/update/delete for one catalog table.
// Updates are partial: fields missing from the body keep their value.
type Resource[T any] struct {
	Store store[T]
}

func NewResource[T any](s store[T]) *Resource[T] { return &Resource[T]{Store: s} }

func (h *Resource[T]) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Store.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *Resource[T]) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Store.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Resource[T]) Create(c echo.Context) error {
	v := new(T)
	if err := bindOnto(c, v); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Store.Create(ctx, v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Resource[T]) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := h.Store.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, v); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(v); err != nil {
		return respondError(c, err)
	}
	if err := h.Store.Save(ctx, v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Resource[T]) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Store.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
