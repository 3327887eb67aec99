package handler

import (
	"net/http"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

// AmenityHandler adds stats to the plain amenity resource.
type AmenityHandler struct {
	*Resource[model.Amenity]
	Repo *repository.AmenityRepo
}

func NewAmenityHandler(r *repository.AmenityRepo) *AmenityHandler {
	return &AmenityHandler{Resource: NewResource[model.Amenity](r), Repo: r}
}

func (h *AmenityHandler) Stats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Repo.Stats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// SettingHandler serves /api/settings/:category[/:key].
type SettingHandler struct {
	Settings *repository.SettingRepo
}

func NewSettingHandler(s *repository.SettingRepo) *SettingHandler {
	return &SettingHandler{Settings: s}
}

// List returns active settings ordered by orderIndex; ?all=true includes
// inactive rows.
func (h *SettingHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Settings.ListCategory(ctx, c.Param("category"), c.QueryParam("all") == "true")
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *SettingHandler) Create(c echo.Context) error {
	s := model.Setting{IsActive: true}
	if err := bindOnto(c, &s, "category"); err != nil {
		return respondError(c, err)
	}
	s.Category = c.Param("category")
	if strings.TrimSpace(s.Key) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": echo.Map{"key": "required"}})
	}
	if err := c.Validate(&s); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Settings.Create(ctx, &s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SettingHandler) Update(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Settings.GetByKey(ctx, c.Param("category"), c.Param("key"))
	if err != nil {
		return respondError(c, err)
	}
	if err := bindOnto(c, s, "category", "key"); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(s); err != nil {
		return respondError(c, err)
	}
	if err := h.Settings.Save(ctx, s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SettingHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Settings.DeleteByKey(ctx, c.Param("category"), c.Param("key")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AuditHandler serves GET /api/admin/audit-logs?limit=.
type AuditHandler struct {
	Audit *repository.AuditRepo
}

func NewAuditHandler(a *repository.AuditRepo) *AuditHandler { return &AuditHandler{Audit: a} }

func (h *AuditHandler) List(c echo.Context) error {
	limit := 100
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Audit.Recent(ctx, limit)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}
