package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"canefarm/database"
)

var appStart = time.Now()

type HealthCtrl struct {
	store database.Store
}

func NewHealthCtrl(s database.Store) *HealthCtrl { return &HealthCtrl{store: s} }

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.store == nil {
		dbOK = false
		dbErr = "store is nil"
	} else if err := h.store.Ping(ctx); err != nil {
		dbOK = false
		dbErr = "ping: " + err.Error()
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK     bool   `json:"ok"`
		Driver string `json:"driver,omitempty"`
		Err    string `json:"err,omitempty"`
	}
	driver := ""
	if h.store != nil {
		driver = h.store.Driver()
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Driver: driver, Err: dbErr},
		},
		"time": time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}
