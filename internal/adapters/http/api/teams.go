package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	service "github.com/okian/roundup/internal/app"
)

// TeamsHandler handles team listing and creation requests.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleListTeams handles GET /teams requests.
func (h *TeamsHandler) HandleListTeams(c echo.Context) error {
	teams, err := h.deps.Teams(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(teams), Data: teams})
}

// createTeamRequest mirrors the team creation body.
type createTeamRequest struct {
	TenantID    string   `json:"tenantId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	LeadUID     string   `json:"leadUid"`
	MaxCapacity int      `json:"maxCapacity"`
}

type createTeamResponse struct {
	Success  bool   `json:"success"`
	TeamID   string `json:"teamId"`
	JoinCode string `json:"joinCode"`
}

// HandleCreateTeam handles POST /teams requests.
func (h *TeamsHandler) HandleCreateTeam(c echo.Context) error {
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "team name is required"})
	}

	result, err := h.deps.CreateTeam(c.Request().Context(), service.CreateTeamRequest{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Description: req.Description,
		Skills:      req.Skills,
		LeadUID:     req.LeadUID,
		MaxCapacity: req.MaxCapacity,
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, createTeamResponse{
		Success:  true,
		TeamID:   result.TeamID,
		JoinCode: result.JoinCode,
	})
}
