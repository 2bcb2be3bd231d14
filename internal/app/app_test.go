package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canefarm/config"
	"canefarm/entities"
)

func openMemory(t *testing.T, requireOperator bool) *echo.Echo {
	t.Helper()
	a, err := Open(context.Background(), config.AppConfig{
		StorageDriver:   "memory",
		PricePerKgATR:   1.212,
		SeedDefaults:    true,
		RequireOperator: requireOperator,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a.Router()
}

func do(t *testing.T, e *echo.Echo, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := openMemory(t, false)
	rec := do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memory")
}

func TestPlotLifecycleAndAssignConflict(t *testing.T) {
	e := openMemory(t, false)

	rec := do(t, e, http.MethodPost, "/api/v1/plots", `{"area":12.5,"planting_date":"2023-08-15"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var plot entities.Plot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plot))
	assert.Equal(t, 1, plot.Number)

	rec = do(t, e, http.MethodPost, "/api/v1/plots", `{"area":0,"planting_date":"2023-08-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/plots/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/categories?cycle=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var defaults []entities.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defaults))
	require.Len(t, defaults, 1)

	rec = do(t, e, http.MethodPost, "/api/v1/categories", `{"cycle":1,"name":"Primeiro Corte B"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var other entities.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))

	body := `{"plot_ids":["` + plot.ID + `"]}`
	rec = do(t, e, http.MethodPut, "/api/v1/categories/"+defaults[0].ID+"/plots", body, "X-Operator", "ana")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPut, "/api/v1/categories/"+other.ID+"/plots", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflicts")

	rec = do(t, e, http.MethodGet, "/api/v1/categories/"+defaults[0].ID+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana")

	rec = do(t, e, http.MethodGet, "/api/v1/plots/"+plot.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cycle":1`)

	rec = do(t, e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "canefarm_http_requests_total")
	assert.Contains(t, rec.Body.String(), "canefarm_category_assignments_total")
}

func TestRequireOperator(t *testing.T) {
	e := openMemory(t, true)

	rec := do(t, e, http.MethodPost, "/api/v1/plots", `{"area":3,"planting_date":"2024-01-10"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/plots", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/plots", `{"area":3,"planting_date":"2024-01-10"}`, "X-Operator", "joao")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCalculatorsAndReports(t *testing.T) {
	e := openMemory(t, false)

	rec := do(t, e, http.MethodPost, "/api/v1/calculators/roi", `{"area":10,"cycle":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"reform_cost"`)

	rec = do(t, e, http.MethodGet, "/api/v1/reports/plots.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "talhoes.xlsx")
	assert.NotZero(t, rec.Body.Len())
}
