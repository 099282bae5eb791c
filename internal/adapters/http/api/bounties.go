package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BountiesHandler handles bounty listing requests.
type BountiesHandler struct {
	deps Dependencies
}

// NewBountiesHandler creates a new bounties handler.
func NewBountiesHandler(deps Dependencies) *BountiesHandler {
	return &BountiesHandler{deps: deps}
}

// HandleListBounties handles GET /bounties requests.
func (h *BountiesHandler) HandleListBounties(c echo.Context) error {
	bounties, err := h.deps.Bounties(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(bounties), Data: bounties})
}
