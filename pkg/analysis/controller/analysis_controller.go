package controller

import "github.com/labstack/echo/v4"

type AnalysisController interface {
	Dashboard(c echo.Context) error
	Consolidation(c echo.Context) error
	ReformPriority(c echo.Context) error
	PlotROI(c echo.Context) error
	OptimalPlotSize(c echo.Context) error

	ROI(c echo.Context) error
	BreakEven(c echo.Context) error
	CashFlow(c echo.Context) error
}
