// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	appName string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(appName, version string) HealthHandler {
	return &HealthHandlerImpl{appName: appName, version: version}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleRoot returns the welcome message
func (h *HealthHandlerImpl) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Welcome to the " + h.appName,
	})
}
