// Package router wires handlers and middleware into an echo instance.
package router

import (
	"io"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/handler"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
)

// Options carries the cross-cutting dependencies of the route table.
// Redis and Audit may be nil; the middleware they back then pass through.
type Options struct {
	JWTSecret     string
	Redis         *redis.Client
	Cache         config.CacheConfig
	RateLimit     config.RateLimitConfig
	AuthRateLimit config.RateLimitConfig
	Audit         middleware.AuditPublisher
	AccessLog     bool
	// LogOutput receives echo's error log and the access log; stdout when nil.
	LogOutput io.Writer
}

// routes holds the per-request middleware shared by the Register* funcs.
type routes struct {
	auth   echo.MiddlewareFunc
	cached echo.MiddlewareFunc
	audit  middleware.AuditPublisher
}

// act tags a route with an audit action.
func (r routes) act(action string) echo.MiddlewareFunc {
	return middleware.Audit(r.audit, action)
}

// New builds the echo instance serving every API route.
func New(h *Handlers, o Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	if o.LogOutput != nil {
		e.Logger.SetOutput(o.LogOutput)
	}

	e.Use(echomw.Recover())
	if o.AccessLog {
		e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{Output: o.LogOutput}))
	}
	e.Use(echomw.BodyLimit("12M"))

	e.GET("/healthz", h.Health.Health)

	api := e.Group("/api",
		middleware.NewTokenBucket(o.RateLimit, o.Redis, middleware.KeyByIP),
		middleware.InvalidateOnWrite(o.Cache, o.Redis),
	)
	r := routes{
		auth:   middleware.JWTAuth(o.JWTSecret),
		cached: middleware.NewRedisCache(o.Cache, o.Redis),
		audit:  o.Audit,
	}

	RegisterAuth(api, h, r, middleware.NewTokenBucket(o.AuthRateLimit, o.Redis, middleware.KeyByLogin))
	RegisterTrips(api, h, r)
	RegisterCatalog(api, h, r)
	RegisterProperties(api, h, r)
	RegisterAdmin(api, h, r)
	return e
}

// RegisterAuth mounts /api/auth and the super-admin user routes.
func RegisterAuth(api *echo.Group, h *Handlers, r routes, strict echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/login", h.Auth.Login, strict)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
	g.POST("/forgot-password", h.Auth.ForgotPassword, strict)
	g.POST("/reset-password", h.Auth.ResetPassword, strict)
	g.GET("/me", h.Auth.Me, r.auth, middleware.RequireAuth())

	u := g.Group("/users", r.auth, middleware.RequireSuperAdmin())
	u.GET("", h.Users.List)
	u.POST("", h.Users.Create, r.act("admin.user.create"))
	u.GET("/:id", h.Users.Get)
	u.PUT("/:id", h.Users.Update, r.act("admin.user.update"))
	u.DELETE("/:id", h.Users.Delete, r.act("admin.user.delete"))
}
