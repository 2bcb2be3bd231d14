package controllerImp

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canefarm/pkg/apperr"
	"canefarm/pkg/httpx"
	"canefarm/pkg/report"
	"canefarm/pkg/report/controller"
	"canefarm/pkg/report/service"
)

type ReportCtrl struct{ s service.ReportService }

func New(s service.ReportService) controller.ReportController { return &ReportCtrl{s} }

// workbooks are rendered to a buffer so a failure still yields a JSON error
func download(c echo.Context, name string, render func(*bytes.Buffer) error) error {
	var b bytes.Buffer
	if err := render(&b); err != nil {
		return httpx.Fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, report.ContentType, b.Bytes())
}

func (h *ReportCtrl) Plots(c echo.Context) error {
	return download(c, "talhoes.xlsx", func(b *bytes.Buffer) error {
		return h.s.Plots(c.Request().Context(), b)
	})
}

func (h *ReportCtrl) SafraCashFlow(c echo.Context) error {
	id := c.Param("id")
	return download(c, "fluxo-de-caixa-"+id+".xlsx", func(b *bytes.Buffer) error {
		return h.s.SafraCashFlow(c.Request().Context(), id, b)
	})
}

// CashFlow renders ?balance=&revenue=&expenses=&months= without storing it.
func (h *ReportCtrl) CashFlow(c echo.Context) error {
	var vals [3]float64
	for i, k := range []string{"balance", "revenue", "expenses"} {
		if v := c.QueryParam(k); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return httpx.Fail(c, apperr.Invalid(k, "must be a number"))
			}
			vals[i] = f
		}
	}
	months, err := strconv.Atoi(c.QueryParam("months"))
	if err != nil || months < 0 || months > 120 {
		return httpx.Fail(c, apperr.Invalid("months", "must be an integer between 0 and 120"))
	}
	return download(c, "fluxo-de-caixa.xlsx", func(b *bytes.Buffer) error {
		return h.s.CashFlow(b, vals[0], vals[1], vals[2], months)
	})
}
