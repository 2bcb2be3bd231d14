package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/auth/controller"
	"canefarm/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// SetOperator stores the operator name in a cookie for later requests.
func (h *authCtrl) SetOperator(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	c.SetCookie(&http.Cookie{Name: middleware.OperatorCookie, Value: name, Path: "/"})
	return c.JSON(http.StatusOK, map[string]string{"operator": name})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"operator": middleware.Operator(c)})
}
