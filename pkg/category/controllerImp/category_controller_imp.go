package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/apperr"
	"canefarm/pkg/category/controller"
	"canefarm/pkg/category/service"
	"canefarm/pkg/httpx"
	"canefarm/pkg/middleware"
)

type CategoryCtrl struct{ s service.CategoryService }

func New(s service.CategoryService) controller.CategoryController { return &CategoryCtrl{s} }

func (h *CategoryCtrl) Create(c echo.Context) error {
	var req service.CreateCategory
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryCtrl) Get(c echo.Context) error {
	out, err := h.s.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryCtrl) List(c echo.Context) error {
	var cycle *int
	if v := c.QueryParam("cycle"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return httpx.Fail(c, apperr.Invalid("cycle", "must be an integer"))
		}
		cycle = &n
	}
	list, err := h.s.ListCategories(c.Request().Context(), cycle)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CategoryCtrl) Patch(c echo.Context) error {
	var in service.CategoryPatch
	if err := httpx.Bind(c, &in); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryCtrl) Delete(c echo.Context) error {
	if err := h.s.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignPlots replaces the plot set of a category. Conflicts under the
// default abort policy answer 409 with the conflicting links.
func (h *CategoryCtrl) AssignPlots(c echo.Context) error {
	var req service.AssignRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	if req.ChangedBy == "" {
		req.ChangedBy = middleware.Operator(c)
	}
	res, err := h.s.Assign(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return httpx.Fail(c, err)
	}
	if !res.Applied {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "plots already assigned to another category of this cycle",
			"conflicts": res.Conflicts,
		})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CategoryCtrl) Conflicts(c echo.Context) error {
	var req struct {
		PlotIDs []string `json:"plot_ids"`
	}
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.PreviewConflicts(c.Request().Context(), c.Param("id"), req.PlotIDs)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryCtrl) AssignSoilPreparations(c echo.Context) error {
	var req service.SoilPrepRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(c, err)
	}
	if req.ChangedBy == "" {
		req.ChangedBy = middleware.Operator(c)
	}
	if err := h.s.AssignSoilPreparations(c.Request().Context(), c.Param("id"), req); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryCtrl) History(c echo.Context) error {
	out, err := h.s.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryCtrl) Summary(c echo.Context) error {
	out, err := h.s.Summaries(c.Request().Context())
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
