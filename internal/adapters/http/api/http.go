// Package api declares HTTP contracts and route registration helpers. The
// handlers are thin: input validation and response mapping only, with all
// business behavior behind the Dependencies interface.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okian/roundup/internal/adapters/dataset"
	"github.com/okian/roundup/internal/adapters/store"
	service "github.com/okian/roundup/internal/app"
	"github.com/okian/roundup/internal/domain/joincode"
	"github.com/okian/roundup/internal/domain/model"
	"github.com/okian/roundup/internal/domain/selector"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Teams(ctx context.Context) ([]model.Team, error)
	Bounties(ctx context.Context) ([]model.Bounty, error)
	Allocate(ctx context.Context, bountyID string) (*model.Assignment, error)
	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
	CreateTeam(ctx context.Context, req service.CreateTeamRequest) (*service.CreateTeamResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	teamsHandler     *TeamsHandler
	bountiesHandler  *BountiesHandler
	assignHandler    *AssignHandler
	dashboardHandler *DashboardHandler
	healthHandler    *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		teamsHandler:     NewTeamsHandler(deps),
		bountiesHandler:  NewBountiesHandler(deps),
		assignHandler:    NewAssignHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
		healthHandler:    NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.healthHandler.HandleHealth)
	e.GET("/metrics", s.healthHandler.HandleMetrics)
	e.GET("/teams", s.teamsHandler.HandleListTeams, MetricsMiddleware("teams"))
	e.POST("/teams", s.teamsHandler.HandleCreateTeam, MetricsMiddleware("teams"))
	e.GET("/bounties", s.bountiesHandler.HandleListBounties, MetricsMiddleware("bounties"))
	e.POST("/assign", s.assignHandler.HandleAssign, MetricsMiddleware("assign"))
	e.GET("/dashboard", s.dashboardHandler.HandleDashboard, MetricsMiddleware("dashboard"))
}

// listResponse is the envelope for collection reads.
type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// dataResponse is the envelope for single-object reads.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeDomainError translates business errors to transport responses. The
// allocation path only ever fails with a clear not-found or invalid-input
// condition; store degradation never reaches here.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: err.Error()})
	case errors.Is(err, selector.ErrBountyNotFound),
		errors.Is(err, selector.ErrNoTeams),
		errors.Is(err, dataset.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, store.ErrNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Code: "store_not_configured", Message: err.Error()})
	case errors.Is(err, joincode.ErrExhausted):
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: "join_code_exhausted", Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: err.Error()})
	}
}
