package controller

import "github.com/labstack/echo/v4"

type CategoryController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	List(c echo.Context) error
	Patch(c echo.Context) error
	Delete(c echo.Context) error
	AssignPlots(c echo.Context) error
	Conflicts(c echo.Context) error
	AssignSoilPreparations(c echo.Context) error
	History(c echo.Context) error
	Summary(c echo.Context) error
}
