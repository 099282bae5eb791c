package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AssignHandler handles bounty allocation requests.
type AssignHandler struct {
	deps Dependencies
}

// NewAssignHandler creates a new assign handler.
func NewAssignHandler(deps Dependencies) *AssignHandler {
	return &AssignHandler{deps: deps}
}

// assignRequest mirrors the allocation body.
type assignRequest struct {
	BountyID string `json:"bounty_id"`
}

// HandleAssign handles POST /assign requests. The response carries the
// winning team, fit score, reasoning, and the full ranked list, or a clear
// not-found condition.
func (h *AssignHandler) HandleAssign(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid request body"})
	}
	if strings.TrimSpace(req.BountyID) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "missing bounty_id"})
	}

	assignment, err := h.deps.Allocate(c.Request().Context(), req.BountyID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: assignment})
}
