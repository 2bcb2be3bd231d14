package controller

import "github.com/labstack/echo/v4"

type ProductController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	List(c echo.Context) error
	Replace(c echo.Context) error
	Delete(c echo.Context) error
	Import(c echo.Context) error
}
