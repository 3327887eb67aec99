package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
)

// RegisterTrips mounts trips, the /cruises alias and trip children.
func RegisterTrips(api *echo.Group, h *Handlers, r routes) {
	admin := []echo.MiddlewareFunc{r.auth, middleware.RequireTripAdmin()}
	editor := []echo.MiddlewareFunc{r.auth, middleware.RequireContentEditor()}
	with := func(mw []echo.MiddlewareFunc, action string) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, mw...), r.act(action))
	}

	for _, prefix := range []string{"/trips", "/cruises"} {
		g := api.Group(prefix)
		g.GET("", h.Trips.List, r.cached)
		g.GET("/slug/:slug", h.Trips.GetBySlug, r.cached)
		g.GET("/:id", h.Trips.Get, r.cached)
		g.POST("", h.Trips.Create, with(admin, "admin.trip.create")...)
		g.PUT("/:id", h.Trips.Update, with(admin, "admin.trip.update")...)
		g.DELETE("/:id", h.Trips.Delete, with(admin, "admin.trip.delete")...)

		g.GET("/:id/itinerary", h.Itinerary.List, r.cached)
		g.POST("/:id/itinerary", h.Itinerary.Create, with(editor, "admin.itinerary.create")...)
		g.GET("/:id/events", h.Events.List, r.cached)
		g.POST("/:id/events", h.Events.Create, with(editor, "admin.event.create")...)
		g.GET("/:id/info-sections", h.InfoSections.List, r.cached)
		g.POST("/:id/info-sections", h.InfoSections.Create, with(editor, "admin.info_section.create")...)
		g.GET("/:id/talent", h.Trips.ListTalent, r.cached)
		g.PUT("/:id/talent", h.Trips.ReplaceTalent, with(editor, "admin.trip.talent.replace")...)
	}

	api.PUT("/itinerary/:id", h.Itinerary.Update, with(editor, "admin.itinerary.update")...)
	api.DELETE("/itinerary/:id", h.Itinerary.Delete, with(editor, "admin.itinerary.delete")...)
	api.PUT("/events/:id", h.Events.Update, with(editor, "admin.event.update")...)
	api.DELETE("/events/:id", h.Events.Delete, with(editor, "admin.event.delete")...)
	api.PUT("/info-sections/:id", h.InfoSections.Update, with(editor, "admin.info_section.update")...)
	api.DELETE("/info-sections/:id", h.InfoSections.Delete, with(editor, "admin.info_section.delete")...)
}
