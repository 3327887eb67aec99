// Package repository wraps gorm for every table of the catalog.  Methods
// take a context first and return the sentinel errors below so handlers
// can map failures to status codes without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/database"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned for unique violations (duplicate slug, username,
// name) and for deletes blocked by dependent rows.  Handlers translate it
// into 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller may not act on a row, e.g. a
// venue that belongs to a different property.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidParent is returned when a referenced parent row (trip, ship,
// resort, venue type, amenity) does not exist.
var ErrInvalidParent = errors.New("invalid parent reference")

// ErrInvalid is returned for values that fail a cross-field rule, such as
// an end date before the start date.  Handlers translate it into 400.
var ErrInvalid = errors.New("invalid input")

// translate maps gorm and driver errors onto the sentinels above.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidParent),
		errors.Is(err, ErrInvalid):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, ErrInvalidParent)
	}
	return fmt.Errorf("%s: %w", op, err)
}
