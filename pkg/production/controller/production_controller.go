package controller

import "github.com/labstack/echo/v4"

type ProductionController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	List(c echo.Context) error
	Patch(c echo.Context) error
	Delete(c echo.Context) error
	Summary(c echo.Context) error
	Efficiency(c echo.Context) error
}
