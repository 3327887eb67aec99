package middleware

import (
	"context"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/queue"
	"github.com/labstack/echo/v4"
)

// AuditPublisher delivers audit events to the broker.  Publish must not
// block on the network; it runs inside the request.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

// Audit publishes an event named action after a 2xx response.  A nil
// publisher disables auditing.  Publishing runs after the response is
// written and its failure is only logged.
func Audit(pub AuditPublisher, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if pub == nil {
			return next
		}
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			status := c.Response().Status
			if status < 200 || status >= 300 {
				return nil
			}
			ev := queue.AuditEvent{
				Action:     action,
				Method:     c.Request().Method,
				Path:       c.Request().URL.Path,
				Status:     status,
				ResourceID: resourceID(c),
				At:         time.Now().UTC(),
			}
			if id, ok := CurrentUserID(c); ok {
				ev.UserID = id
			}
			if r, ok := CurrentRole(c); ok {
				ev.Role = r.String()
			}
			if err := pub.Publish(c.Request().Context(), ev); err != nil {
				c.Logger().Errorf("audit: publish %s: %v", ev.Action, err)
			}
			return nil
		}
	}
}

// resourceID prefers the innermost path id.
func resourceID(c echo.Context) string {
	for _, name := range []string{"venueId", "key", "id"} {
		if v := c.Param(name); v != "" {
			return v
		}
	}
	return ""
}
