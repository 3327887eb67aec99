package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
)

// RegisterAdmin mounts image uploads and the audit log.
func RegisterAdmin(api *echo.Group, h *Handlers, r routes) {
	img := api.Group("/images", r.auth, middleware.RequireMediaManager())
	img.POST("/upload/:type", h.Images.Upload, r.act("admin.image.upload"))
	img.POST("/download-from-url", h.Images.DownloadFromURL, r.act("admin.image.download"))

	api.GET("/admin/audit-logs", h.Audit.List, r.auth, middleware.RequireSuperAdmin())
}
