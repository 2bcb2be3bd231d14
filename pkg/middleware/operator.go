package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	OperatorCookie  = "CANEFARM_OPERATOR"
	OperatorHeader  = "X-Operator"
	DefaultOperator = "system"
	operatorKey     = "operator"
)

// Operators resolves who is making the change, used as changed_by in the
// category history. Header wins over cookie; ?operator= sets the cookie.
func Operators() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			op := strings.TrimSpace(c.Request().Header.Get(OperatorHeader))
			if op == "" {
				if q := strings.TrimSpace(c.QueryParam("operator")); q != "" {
					c.SetCookie(&http.Cookie{Name: OperatorCookie, Value: q, Path: "/"})
					op = q
				} else if ck, err := c.Cookie(OperatorCookie); err == nil {
					op = ck.Value
				}
			}
			if op != "" {
				c.Set(operatorKey, op)
			}
			return next(c)
		}
	}
}

// RequireOperator rejects writes without an identified operator when
// enabled. Reads always pass.
func RequireOperator(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			if _, ok := c.Get(operatorKey).(string); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "operator required: set " + OperatorHeader})
			}
			return next(c)
		}
	}
}

// Operator returns the operator of the request, or DefaultOperator.
func Operator(c echo.Context) string {
	if v, ok := c.Get(operatorKey).(string); ok && v != "" {
		return v
	}
	return DefaultOperator
}
