package controller

import "github.com/labstack/echo/v4"

type ReportController interface {
	Plots(c echo.Context) error
	SafraCashFlow(c echo.Context) error
	CashFlow(c echo.Context) error
}
