package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/analysis/controller"
	"canefarm/pkg/analysis/service"
	"canefarm/pkg/apperr"
	"canefarm/pkg/httpx"
)

type AnalysisCtrl struct{ s service.AnalysisService }

func New(s service.AnalysisService) controller.AnalysisController { return &AnalysisCtrl{s} }

func (h *AnalysisCtrl) Dashboard(c echo.Context) error {
	out, err := h.s.Dashboard(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalysisCtrl) Consolidation(c echo.Context) error {
	out, err := h.s.Consolidation(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalysisCtrl) ReformPriority(c echo.Context) error {
	out, err := h.s.ReformPriority(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalysisCtrl) PlotROI(c echo.Context) error {
	out, err := h.s.PlotROI(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func queryFloat(c echo.Context, name string) (float64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "must be a number")
	}
	return f, nil
}

// OptimalPlotSize reads ?operational_costs= and ?machinery_capacity=.
func (h *AnalysisCtrl) OptimalPlotSize(c echo.Context) error {
	costs, err := queryFloat(c, "operational_costs")
	if err != nil {
		return httpx.Fail(c, err)
	}
	capacity, err := queryFloat(c, "machinery_capacity")
	if err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.OptimalPlotSize(c.Request().Context(), costs, capacity)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalysisCtrl) ROI(c echo.Context) error {
	var req service.ROIInput
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.ROI(req))
}

func (h *AnalysisCtrl) BreakEven(c echo.Context) error {
	var req service.BreakEvenInput
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.BreakEven(req))
}

type cashFlowRequest struct {
	InitialBalance  float64 `json:"initial_balance"`
	MonthlyRevenue  float64 `json:"monthly_revenue" validate:"gte=0"`
	MonthlyExpenses float64 `json:"monthly_expenses" validate:"gte=0"`
	Months          int     `json:"months" validate:"gte=0,lte=120"`
}

func (h *AnalysisCtrl) CashFlow(c echo.Context) error {
	var req cashFlowRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, h.s.Projection(req.InitialBalance, req.MonthlyRevenue, req.MonthlyExpenses, req.Months))
}
