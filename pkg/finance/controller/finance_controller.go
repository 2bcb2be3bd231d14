package controller

import "github.com/labstack/echo/v4"

type FinanceController interface {
	CreatePayment(c echo.Context) error
	ListPayments(c echo.Context) error
	DeletePayment(c echo.Context) error

	CreateSafra(c echo.Context) error
	GetSafra(c echo.Context) error
	ListSafras(c echo.Context) error
	PatchSafra(c echo.Context) error
	DeleteSafra(c echo.Context) error
	ProjectCashFlow(c echo.Context) error
	CashFlow(c echo.Context) error

	CreateInput(c echo.Context) error
	ListInputs(c echo.Context) error
	DeleteInput(c echo.Context) error
	CostAnalysis(c echo.Context) error
}
