package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
)

// crud is the handler set of a plain catalog resource.
type crud interface {
	List(echo.Context) error
	Get(echo.Context) error
	Create(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// mountCRUD registers public reads and editor-gated writes for one
// resource under path; entity names the audit action.
func mountCRUD(api *echo.Group, r routes, path, entity string, h crud) *echo.Group {
	g := api.Group(path)
	g.GET("", h.List, r.cached)
	g.GET("/:id", h.Get, r.cached)
	g.POST("", h.Create, r.auth, middleware.RequireContentEditor(), r.act("admin."+entity+".create"))
	g.PUT("/:id", h.Update, r.auth, middleware.RequireContentEditor(), r.act("admin."+entity+".update"))
	g.DELETE("/:id", h.Delete, r.auth, middleware.RequireContentEditor(), r.act("admin."+entity+".delete"))
	return g
}

// RegisterCatalog mounts talent, party themes, amenities, venue types,
// venues, lookups and settings.
func RegisterCatalog(api *echo.Group, h *Handlers, r routes) {
	mountCRUD(api, r, "/talent", "talent", h.Talent)
	mountCRUD(api, r, "/party-themes", "party_theme", h.PartyThemes)
	mountCRUD(api, r, "/venue-types", "venue_type", h.VenueTypes)
	mountCRUD(api, r, "/resort-companies", "resort_company", h.ResortCompanies)
	mountCRUD(api, r, "/cruise-lines", "cruise_line", h.CruiseLines)

	api.GET("/amenities/stats", h.Amenities.Stats, r.cached)
	mountCRUD(api, r, "/amenities", "amenity", h.Amenities)

	api.GET("/venues/stats", h.Venues.Stats, r.cached)
	mountCRUD(api, r, "/venues", "venue", h.Venues)

	s := api.Group("/settings/:category")
	s.GET("", h.Settings.List, r.cached)
	s.POST("", h.Settings.Create, r.auth, middleware.RequireTripAdmin(), r.act("admin.setting.create"))
	s.PUT("/:key", h.Settings.Update, r.auth, middleware.RequireTripAdmin(), r.act("admin.setting.update"))
	s.DELETE("/:key", h.Settings.Delete, r.auth, middleware.RequireTripAdmin(), r.act("admin.setting.delete"))
}
