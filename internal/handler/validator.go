package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator reports field errors by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// validationErrors maps a JSON field name to the failed rule.
type validationErrors map[string]string

func (e validationErrors) Error() string { return "validation failed" }

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if !errors.As(err, &fe) {
		return err
	}
	out := validationErrors{}
	for _, f := range fe {
		out[f.Field()] = f.Tag()
	}
	return out
}
