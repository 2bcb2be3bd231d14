package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEcho(require bool) *echo.Echo {
	e := echo.New()
	e.Use(Operators(), RequireOperator(require))
	h := func(c echo.Context) error { return c.String(http.StatusOK, Operator(c)) }
	e.GET("/who", h)
	e.POST("/who", h)
	return e
}

func TestOperatorResolution(t *testing.T) {
	e := newEcho(false)

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		want   string
	}{
		{"default", func(*http.Request) {}, "/who", DefaultOperator},
		{"header", func(r *http.Request) { r.Header.Set(OperatorHeader, "maria") }, "/who", "maria"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: OperatorCookie, Value: "joao"}) }, "/who", "joao"},
		{"query", func(*http.Request) {}, "/who?operator=ana", "ana"},
		{"header beats cookie", func(r *http.Request) {
			r.Header.Set(OperatorHeader, "maria")
			r.AddCookie(&http.Cookie{Name: OperatorCookie, Value: "joao"})
		}, "/who", "maria"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			tc.setup(r)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, r)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestQuerySetsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newEcho(false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/who?operator=ana", nil))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), OperatorCookie+"=ana")
}

func TestRequireOperator(t *testing.T) {
	e := newEcho(true)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r := httptest.NewRequest(http.MethodPost, "/who", nil)
	r.Header.Set(OperatorHeader, "maria")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maria", rec.Body.String())
}
