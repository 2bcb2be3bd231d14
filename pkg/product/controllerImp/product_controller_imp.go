package controllerImp

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"canefarm/entities"
	"canefarm/pkg/apperr"
	"canefarm/pkg/httpx"
	"canefarm/pkg/product/controller"
	"canefarm/pkg/product/importer"
	"canefarm/pkg/product/repository"
	"canefarm/pkg/product/service"
)

type ProductCtrl struct{ s service.ProductService }

func New(s service.ProductService) controller.ProductController { return &ProductCtrl{s: s} }

func (h *ProductCtrl) Create(c echo.Context) error {
	var in entities.Product
	if err := httpx.Bind(c, &in); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductCtrl) Get(c echo.Context) error {
	out, err := h.s.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductCtrl) List(c echo.Context) error {
	all, _ := strconv.ParseBool(c.QueryParam("all"))
	out, err := h.s.ListProducts(c.Request().Context(), repository.Filter{
		Category:        c.QueryParam("category"),
		Type:            c.QueryParam("type"),
		Query:           strings.TrimSpace(c.QueryParam("q")),
		IncludeInactive: all,
	})
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductCtrl) Replace(c echo.Context) error {
	var in entities.Product
	if err := httpx.Bind(c, &in); err != nil {
		return httpx.Fail(c, err)
	}
	out, err := h.s.ReplaceProduct(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductCtrl) Delete(c echo.Context) error {
	if err := h.s.DeactivateProduct(c.Request().Context(), c.Param("id")); err != nil {
		return httpx.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Import accepts a multipart "file" (.xlsx or .html) or a JSON {"url": ...}
// pointing at a registry page.
func (h *ProductCtrl) Import(c echo.Context) error {
	ctx := c.Request().Context()
	fh, err := c.FormFile("file")
	if err != nil {
		var req struct {
			URL string `json:"url" validate:"required,url"`
		}
		if err := httpx.Bind(c, &req); err != nil {
			return httpx.Fail(c, apperr.Invalid("file", "multipart file or url required"))
		}
		rep, err := h.s.ImportURL(ctx, req.URL)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return c.JSON(http.StatusOK, rep)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if format == "htm" {
		format = importer.FormatHTML
	}
	if v := c.FormValue("format"); v != "" {
		format = v
	}
	f, err := fh.Open()
	if err != nil {
		return httpx.Fail(c, apperr.Invalid("file", err.Error()))
	}
	defer f.Close()
	rep, err := h.s.Import(ctx, format, f)
	if err != nil {
		return httpx.Fail(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
