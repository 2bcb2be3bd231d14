package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/finance/controller"
	"canefarm/pkg/finance/repository"
	"canefarm/pkg/finance/service"
	"canefarm/pkg/httpx"
)

type FinanceCtrl struct{ s service.FinanceService }

func New(s service.FinanceService) controller.FinanceController { return &FinanceCtrl{s} }

func (h *FinanceCtrl) CreatePayment(c echo.Context) error {
	var req service.CreatePayment
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreatePayment(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FinanceCtrl) ListPayments(c echo.Context) error {
	out, err := h.s.ListPayments(c.Request().Context(), c.QueryParam("production_id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) DeletePayment(c echo.Context) error {
	if err := h.s.DeletePayment(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceCtrl) CreateSafra(c echo.Context) error {
	var req service.CreateSafra
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateSafra(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FinanceCtrl) GetSafra(c echo.Context) error {
	out, err := h.s.GetSafra(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) ListSafras(c echo.Context) error {
	out, err := h.s.ListSafras(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) PatchSafra(c echo.Context) error {
	var req service.SafraPatch
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) DeleteSafra(c echo.Context) error {
	if err := h.s.DeleteSafra(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceCtrl) ProjectCashFlow(c echo.Context) error {
	var req service.Projection
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.ProjectCashFlow(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) CashFlow(c echo.Context) error {
	out, err := h.s.CashFlow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) CreateInput(c echo.Context) error {
	var req service.CreateInput
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateInput(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FinanceCtrl) ListInputs(c echo.Context) error {
	out, err := h.s.ListInputs(c.Request().Context(), repository.InputFilter{
		PlotID:    c.QueryParam("plot_id"),
		InputType: c.QueryParam("input_type"),
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceCtrl) DeleteInput(c echo.Context) error {
	if err := h.s.DeleteInput(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceCtrl) CostAnalysis(c echo.Context) error {
	out, err := h.s.CostAnalysis(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
