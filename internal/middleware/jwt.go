package middleware

import (
	"net/http"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and stores its subject and role
// in the request context under "user_id" (uint64) and "role" (model.Role).
// It does not touch the database.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			role, ok := model.ParseRole(claims.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}
