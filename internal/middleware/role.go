package middleware

import (
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/labstack/echo/v4"
)

// RequireRole aborts with 403 unless the role stored by JWTAuth is in roles.
// A request that never passed JWTAuth gets 401.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := CurrentRole(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Gates, from widest to narrowest.
func RequireAuth() echo.MiddlewareFunc          { return RequireRole(model.AuthenticatedRoles...) }
func RequireMediaManager() echo.MiddlewareFunc  { return RequireRole(model.MediaManagerRoles...) }
func RequireContentEditor() echo.MiddlewareFunc { return RequireRole(model.ContentEditorRoles...) }
func RequireTripAdmin() echo.MiddlewareFunc     { return RequireRole(model.TripAdminRoles...) }
func RequireSuperAdmin() echo.MiddlewareFunc    { return RequireRole(model.SuperAdminRoles...) }
