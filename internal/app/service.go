// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/roundup/internal/adapters/dataset"
	"github.com/okian/roundup/internal/adapters/recorder"
	"github.com/okian/roundup/internal/adapters/store"
	"github.com/okian/roundup/internal/domain/joincode"
	"github.com/okian/roundup/internal/domain/model"
	"github.com/okian/roundup/internal/domain/selector"
	"github.com/okian/roundup/pkg/logger"
	"github.com/okian/roundup/pkg/metrics"
)

// Policy defaults applied to newly created teams.
const (
	defaultTeamCapacity        = 5
	defaultNewTeamProductivity = 0.75

	teamsCollection   = "teams"
	topPerformerCount = 3
)

// CreateTeamRequest carries the validated inputs for team creation.
type CreateTeamRequest struct {
	TenantID    string
	Name        string
	Description string
	Skills      []string
	LeadUID     string
	MaxCapacity int
}

// CreateTeamResult reports the created team and its join code.
type CreateTeamResult struct {
	TeamID   string
	JoinCode string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store capability. The store handle is injected
// here and owned by the process bootstrap; the service never constructs one.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithTenant sets the tenant partition the service operates under.
func WithTenant(tenant string) Option {
	return func(s *Service) {
		if tenant != "" {
			s.tenant = tenant
		}
	}
}

// WithDataDir sets the directory of the static fallback dataset.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service wires the allocation core: dataset retrieval, candidate selection,
// outcome recording, and join code issuance.
type Service struct {
	store   store.Store
	tenant  string
	dataDir string
	log     logger.Logger

	data     *dataset.Provider
	recorder *recorder.Recorder
	codes    *joincode.Allocator
}

// New creates a Service. Without WithStore it runs against an unconfigured
// store, which means static-dataset reads and skipped persistence.
func New(opts ...Option) *Service {
	s := &Service{
		store:   store.Unconfigured{},
		tenant:  "default",
		dataDir: "data",
		log:     logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.data = dataset.New(s.store,
		dataset.WithTenant(s.tenant),
		dataset.WithDataDir(s.dataDir),
		dataset.WithLogger(s.log))
	s.recorder = recorder.New(s.store,
		recorder.WithTenant(s.tenant),
		recorder.WithLogger(s.log))
	s.codes = joincode.New(s.store,
		joincode.WithLogger(s.log))

	return s
}

// Teams returns the current team records.
func (s *Service) Teams(ctx context.Context) ([]model.Team, error) {
	return s.data.Teams(ctx)
}

// Bounties returns the current bounty records.
func (s *Service) Bounties(ctx context.Context) ([]model.Bounty, error) {
	return s.data.Bounties(ctx)
}

// Allocate picks the best-fit team for the bounty and fires the persistence
// of the outcome without waiting for it. The returned decision is complete on
// its own; a degraded store never fails this call as long as fallback data
// exists.
func (s *Service) Allocate(ctx context.Context, bountyID string) (*model.Assignment, error) {
	if strings.TrimSpace(bountyID) == "" {
		return nil, fmt.Errorf("%w: bounty id is required", ErrInvalidInput)
	}

	teams, err := s.data.Teams(ctx)
	if err != nil {
		metrics.RecordAllocationFailure()
		return nil, err
	}
	bounties, err := s.data.Bounties(ctx)
	if err != nil {
		metrics.RecordAllocationFailure()
		return nil, err
	}

	assignment, err := selector.Select(bountyID, teams, bounties)
	if err != nil {
		metrics.RecordAllocationFailure()
		return nil, err
	}

	// Best-effort bookkeeping; the outcome channel is consumed by the
	// recorder's own logging and metrics.
	s.recorder.RecordAsync(ctx, bountyID, assignment)

	metrics.RecordAllocation()
	s.log.Info(ctx, "bounty allocated",
		logger.String("bounty_id", bountyID),
		logger.String("team_id", assignment.Team.ID),
		logger.Float64("fit_score", assignment.FitScore))
	return assignment, nil
}

// CreateTeam validates the request, issues a join code, and persists the new
// team record with its policy defaults.
func (s *Service) CreateTeam(ctx context.Context, req CreateTeamRequest) (*CreateTeamResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	tenant := strings.TrimSpace(req.TenantID)
	if tenant == "" {
		tenant = s.tenant
	}

	code, err := s.codes.Allocate(ctx, tenant, name)
	if err != nil {
		return nil, err
	}

	capacity := req.MaxCapacity
	if capacity <= 0 {
		capacity = defaultTeamCapacity
	}

	now := time.Now().UTC()
	teamID, err := s.store.Create(ctx, tenant, teamsCollection, map[string]any{
		"name":              name,
		"description":       req.Description,
		"skills":            req.Skills,
		"joinCode":          code,
		"leadUid":           req.LeadUID,
		"active":            true,
		"createdAt":         now,
		"updatedAt":         now,
		"current_workload":  0,
		"max_capacity":      capacity,
		"productivity_rate": defaultNewTeamProductivity,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "team created",
		logger.String("tenant", tenant),
		logger.String("team_id", teamID),
		logger.String("join_code", code))
	return &CreateTeamResult{TeamID: teamID, JoinCode: code}, nil
}

// Dashboard aggregates team workload, productivity, and bounty difficulty
// into the operator summary. Pure read and summation.
func (s *Service) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	teams, err := s.data.Teams(ctx)
	if err != nil {
		return nil, err
	}
	bounties, err := s.data.Bounties(ctx)
	if err != nil {
		return nil, err
	}

	var productivitySum float64
	var capacityUsed, capacityTotal int
	workload := make([]model.TeamWorkload, 0, len(teams))
	performers := make([]model.Performer, 0, len(teams))

	for _, t := range teams {
		rate := t.Productivity(0)
		productivitySum += rate
		capacityUsed += t.CurrentWorkload
		capacityTotal += t.MaxCapacity

		var utilization float64
		if t.MaxCapacity > 0 {
			utilization = float64(t.CurrentWorkload) / float64(t.MaxCapacity) * 100
		}
		workload = append(workload, model.TeamWorkload{
			TeamID:           t.ID,
			TeamName:         t.Name,
			Workload:         t.CurrentWorkload,
			Capacity:         t.MaxCapacity,
			Utilization:      utilization,
			ProductivityRate: rate,
		})
		performers = append(performers, model.Performer{Name: t.Name, Productivity: rate})
	}

	var avgProductivity float64
	if len(teams) > 0 {
		avgProductivity = productivitySum / float64(len(teams))
	}
	var overallUtilization float64
	if capacityTotal > 0 {
		overallUtilization = round2(float64(capacityUsed) / float64(capacityTotal) * 100)
	}

	difficulty := make(map[string]int)
	for _, b := range bounties {
		d := b.Difficulty
		if d == "" {
			d = "unknown"
		}
		difficulty[d]++
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].Productivity > performers[j].Productivity
	})
	if len(performers) > topPerformerCount {
		performers = performers[:topPerformerCount]
	}

	return &model.DashboardSummary{
		Summary: model.DashboardTotals{
			TotalTeams:          len(teams),
			TotalBounties:       len(bounties),
			AvgTeamProductivity: round2(avgProductivity * 100),
			TotalCapacityUsed:   capacityUsed,
			TotalCapacity:       capacityTotal,
			OverallUtilization:  overallUtilization,
		},
		TeamWorkload:     workload,
		BountyDifficulty: difficulty,
		TopPerformers:    performers,
		Timestamp:        time.Now().UTC(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
