// Package httpx holds the echo helpers shared by every controller.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"canefarm/pkg/apperr"
)

// Fail writes err as {"error": "..."} with a status derived from its kind.
func Fail(c echo.Context, err error) error {
	return c.JSON(Status(err), echo.Map{"error": err.Error()})
}

func Status(err error) int {
	var ve validator.ValidationErrors
	switch {
	case apperr.IsValidation(err), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Validator adapts validator/v10 to echo.Validator.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// Bind binds the request body into dst and runs struct validation.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Invalid("body", "invalid json")
	}
	return c.Validate(dst)
}
