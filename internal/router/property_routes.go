package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/handler"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
)

// RegisterProperties mounts resorts and ships, their amenity and venue
// associations, and the admin venue manager and compose endpoints.
func RegisterProperties(api *echo.Group, h *Handlers, r routes) {
	mountProperty(api, r, "resorts", "resort", h.Resorts)
	mountProperty(api, r, "ships", "ship", h.Ships)
}

func mountProperty(api *echo.Group, r routes, plural, entity string, p *handler.PropertyHandler) {
	editor := []echo.MiddlewareFunc{r.auth, middleware.RequireContentEditor()}
	with := func(action string) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, editor...), r.act("admin."+entity+"."+action))
	}
	list, get, create, update, del := p.CRUD()

	g := api.Group("/" + plural)
	g.GET("", list, r.cached)
	g.GET("/stats", p.Stats, r.cached)
	g.GET("/:id", get, r.cached)
	g.POST("", create, with("create")...)
	g.PUT("/:id", update, with("update")...)
	g.DELETE("/:id", del, with("delete")...)

	g.GET("/:id/amenities", p.GetAmenities, r.cached)
	g.PUT("/:id/amenities", p.PutAmenities, with("amenities.replace")...)
	g.GET("/:id/venues", p.GetVenues, r.cached)
	g.PUT("/:id/venues", p.PutVenues, with("venues.replace")...)

	a := api.Group("/admin/"+plural, editor...)
	a.POST("/compose", p.Compose, r.act("admin."+entity+".compose"))
	a.GET("/:id/venues", p.GetVenues)
	a.POST("/:id/venues", p.CreateVenue, r.act("admin."+entity+".venue.create"))
	a.PUT("/:id/venues/:venueId", p.UpdateVenue, r.act("admin."+entity+".venue.update"))
	a.DELETE("/:id/venues/:venueId", p.DeleteVenue, r.act("admin."+entity+".venue.delete"))
}
