package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DashboardHandler handles operator dashboard requests.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests.
func (h *DashboardHandler) HandleDashboard(c echo.Context) error {
	summary, err := h.deps.Dashboard(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: summary})
}
