package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canefarm/pkg/apperr"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(apperr.Invalid("area", "must be > 0")))
	assert.Equal(t, http.StatusNotFound, Status(fmt.Errorf("get: %w", apperr.ErrNotFound)))
	assert.Equal(t, http.StatusConflict, Status(fmt.Errorf("create: %w", apperr.ErrConflict)))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("disk full")))
}

type req struct {
	Name string  `json:"name" validate:"required"`
	Area float64 `json:"area" validate:"gt=0"`
}

func TestBind(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	cases := []struct {
		name string
		body string
		code int
	}{
		{"ok", `{"name":"T1","area":2}`, 0},
		{"bad json", `{"name":`, http.StatusBadRequest},
		{"missing name", `{"area":2}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c := e.NewContext(r, httptest.NewRecorder())
			var in req
			err := Bind(c, &in)
			if tc.code == 0 {
				require.NoError(t, err)
				assert.Equal(t, "T1", in.Name)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.code, Status(err))
		})
	}
}

func TestFailBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, Fail(c, fmt.Errorf("get plot: %w", apperr.ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"get plot: not found"}`, rec.Body.String())
}
