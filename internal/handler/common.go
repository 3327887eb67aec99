package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/labstack/echo/v4"
)

const dbTimeout = 5 * time.Second

// maxJSONBody caps decoded request bodies.
const maxJSONBody = 1 << 20

// errBadBody is returned for unreadable or malformed JSON bodies.
var errBadBody = errors.New("invalid body")

// protectedKeys are never taken from a request body.
var protectedKeys = []string{"id", "createdAt", "updatedAt", "computedStatus"}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id stored by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// parseOptionalID reads an optional positive integer query parameter.
func parseOptionalID(c echo.Context, name string) (*uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &id, nil
}

func items[T any](c echo.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// bindOnto decodes the JSON body over dst.  Fields absent from the body
// keep their current value; protectedKeys and extra are dropped first.
func bindOnto(c echo.Context, dst any, extra ...string) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxJSONBody))
	if err != nil {
		return errBadBody
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errBadBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errBadBody
	}
	for _, k := range append(protectedKeys, extra...) {
		delete(fields, k)
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return errBadBody
	}
	if err := json.Unmarshal(clean, dst); err != nil {
		return errBadBody
	}
	return nil
}

// bindAndValidate binds the request into dst and runs the validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errBadBody
	}
	return c.Validate(dst)
}

// respondError maps repository and validation errors to JSON responses.
// Unknown errors are logged and reported as 500 without detail.
func respondError(c echo.Context, err error) error {
	var he *echo.HTTPError
	var ve validationErrors
	switch {
	case errors.As(err, &he):
		return c.JSON(he.Code, echo.Map{"error": httpErrorMessage(he)})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve})
	case errors.Is(err, errBadBody):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidParent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced record does not exist"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicts with an existing record"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, context.DeadlineExceeded):
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database timeout"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func httpErrorMessage(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}

// HTTPErrorHandler renders errors that escape handlers (404 routes, 405,
// recovered panics) in the {"error": "..."} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if rerr := respondError(c, err); rerr != nil {
		c.Logger().Error(rerr)
	}
}
