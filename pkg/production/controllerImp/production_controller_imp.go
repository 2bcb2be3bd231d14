package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/apperr"
	"canefarm/pkg/httpx"
	"canefarm/pkg/production/controller"
	"canefarm/pkg/production/repository"
	"canefarm/pkg/production/service"
)

type ProductionCtrl struct{ s service.ProductionService }

func New(s service.ProductionService) controller.ProductionController { return &ProductionCtrl{s} }

func (h *ProductionCtrl) Create(c echo.Context) error {
	var req service.CreateProduction
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateProduction(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductionCtrl) Get(c echo.Context) error {
	out, err := h.s.GetProduction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List filters by ?plot_id= and ?cycle=.
func (h *ProductionCtrl) List(c echo.Context) error {
	f := repository.Filter{PlotID: c.QueryParam("plot_id")}
	if v := c.QueryParam("cycle"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return httpx.Fail(c, apperr.Invalid("cycle", "must be an integer"))
		}
		f.Cycle = &n
	}
	out, err := h.s.ListProductions(c.Request().Context(), f)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductionCtrl) Patch(c echo.Context) error {
	var req service.ProductionPatch
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductionCtrl) Delete(c echo.Context) error {
	if err := h.s.DeleteProduction(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductionCtrl) Summary(c echo.Context) error {
	out, err := h.s.SummaryByCycle(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductionCtrl) Efficiency(c echo.Context) error {
	out, err := h.s.Efficiency(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
