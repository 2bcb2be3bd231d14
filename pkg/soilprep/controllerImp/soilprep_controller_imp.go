package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/httpx"
	"canefarm/pkg/soilprep/controller"
	"canefarm/pkg/soilprep/service"
)

type SoilPrepCtrl struct{ s service.SoilPrepService }

func New(s service.SoilPrepService) controller.SoilPrepController { return &SoilPrepCtrl{s} }

func (h *SoilPrepCtrl) Create(c echo.Context) error {
	var req service.CreateSoilPrep
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateSoilPrep(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SoilPrepCtrl) Get(c echo.Context) error {
	out, err := h.s.GetSoilPrep(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List supports ?q= search over name and description.
func (h *SoilPrepCtrl) List(c echo.Context) error {
	out, err := h.s.ListSoilPreps(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SoilPrepCtrl) Patch(c echo.Context) error {
	var req service.SoilPrepPatch
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SoilPrepCtrl) ReplaceActions(c echo.Context) error {
	var req service.ReplaceActions
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.ReplaceActions(c.Request().Context(), c.Param("id"), req.Actions)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SoilPrepCtrl) Delete(c echo.Context) error {
	if err := h.s.DeleteSoilPrep(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
