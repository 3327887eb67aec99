package middleware

import (
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// CurrentUserID returns the authenticated user id stored by JWTAuth.
func CurrentUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// CurrentRole returns the authenticated role stored by JWTAuth.
func CurrentRole(c echo.Context) (model.Role, bool) {
	r, ok := c.Get(ctxRole).(model.Role)
	return r, ok
}
