package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports database and cache reachability for /healthz.
type HealthHandler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// Health returns 200 when the database answers a ping and 503 otherwise.
// Redis is optional; its state is reported but never fails the check.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := echo.Map{"status": "ok", "database": "ok", "cache": "disabled"}

	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		body["status"], body["database"] = "degraded", "unreachable"
	}
	if h.Redis != nil {
		body["cache"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			body["cache"] = "unreachable"
		}
	}
	return c.JSON(status, body)
}
