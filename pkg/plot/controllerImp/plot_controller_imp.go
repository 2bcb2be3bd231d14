package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/httpx"
	"canefarm/pkg/plot/controller"
	"canefarm/pkg/plot/service"
)

type PlotCtrl struct{ s service.PlotService }

func New(s service.PlotService) controller.PlotController { return &PlotCtrl{s} }

func (h *PlotCtrl) Create(c echo.Context) error {
	var req service.CreatePlot
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	p, err := h.s.CreatePlot(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlotCtrl) Get(c echo.Context) error {
	p, err := h.s.GetPlot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlotCtrl) List(c echo.Context) error {
	list, err := h.s.ListPlots(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PlotCtrl) Unassigned(c echo.Context) error {
	list, err := h.s.Unassigned(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PlotCtrl) Patch(c echo.Context) error {
	var in service.PlotPatch
	if err := httpx.Bind(c, &in); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PlotCtrl) Delete(c echo.Context) error {
	if err := h.s.DeletePlot(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
