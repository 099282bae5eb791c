// Package model contains domain models passed between layers.
package model

import "time"

// Team represents a work group competing for bounty assignments.
// Fields mirror the tenant "teams" collection documents.
type Team struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Skills      []string `json:"skills" yaml:"skills"`
	// ProductivityRate is normalized to [0,1]. A nil value means the rate is
	// unknown; the scorer substitutes a neutral 0.5, the dashboard reports 0.
	ProductivityRate *float64 `json:"productivity_rate,omitempty" yaml:"productivity_rate,omitempty"`
	// CurrentWorkload may exceed MaxCapacity; over-commitment is representable
	// and penalized by the scorer, not forbidden.
	CurrentWorkload int    `json:"current_workload" yaml:"current_workload"`
	MaxCapacity     int    `json:"max_capacity" yaml:"max_capacity"`
	JoinCode        string `json:"joinCode,omitempty" yaml:"join_code,omitempty"`
	LeadUID         string `json:"leadUid,omitempty" yaml:"lead_uid,omitempty"`
	TenantID        string `json:"tenantId,omitempty" yaml:"tenant_id,omitempty"`
	Active          bool   `json:"active,omitempty" yaml:"active,omitempty"`
}

// Productivity returns the stored rate, or the given default when unknown.
func (t Team) Productivity(def float64) float64 {
	if t.ProductivityRate == nil {
		return def
	}
	return *t.ProductivityRate
}

// RemainingSlots reports MaxCapacity minus CurrentWorkload. The result is not
// floored at zero: a negative value signals over-commitment.
func (t Team) RemainingSlots() int {
	return t.MaxCapacity - t.CurrentWorkload
}

// Bounty statuses.
const (
	BountyStatusOpen     = "open"
	BountyStatusAssigned = "assigned"
)

// Bounty represents a unit of work waiting for a team.
type Bounty struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Difficulty     string   `json:"difficulty" yaml:"difficulty"`
	RequiredSkills []string `json:"required_skills" yaml:"required_skills"`
	Status         string   `json:"status" yaml:"status"`
	AssignedTeamID string   `json:"assignedTeamId,omitempty" yaml:"assigned_team_id,omitempty"`
}

// ScoreBreakdown captures one (team, bounty) evaluation. The three factors are
// fractions in [0,1]; Composite is the weighted 0-100 fit value.
type ScoreBreakdown struct {
	SkillMatch   float64
	Productivity float64
	Availability float64
	Composite    float64
}

// RankedScore is one audit row of the ranked list returned with every
// allocation. Component values are percentages rounded to two decimals.
type RankedScore struct {
	TeamID        string  `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Score         float64 `json:"score"`
	SkillMatch    float64 `json:"skill_match"`
	Productivity  float64 `json:"productivity"`
	WorkloadScore float64 `json:"workload_score"`
}

// Assignment is the outcome of ranking all teams for a bounty.
type Assignment struct {
	Team      Team          `json:"assigned_team"`
	FitScore  float64       `json:"fit_score"`
	Reasoning string        `json:"reasoning"`
	Scores    []RankedScore `json:"all_scores"`
}

// TeamWorkload is one dashboard row describing a team's load.
type TeamWorkload struct {
	TeamID           string  `json:"team_id"`
	TeamName         string  `json:"team_name"`
	Workload         int     `json:"workload"`
	Capacity         int     `json:"capacity"`
	Utilization      float64 `json:"utilization"`
	ProductivityRate float64 `json:"productivity_rate"`
}

// Performer is a dashboard entry for the productivity leaderboard.
type Performer struct {
	Name         string  `json:"name"`
	Productivity float64 `json:"productivity"`
}

// DashboardTotals aggregates capacity and productivity across all teams.
type DashboardTotals struct {
	TotalTeams          int     `json:"total_teams"`
	TotalBounties       int     `json:"total_bounties"`
	AvgTeamProductivity float64 `json:"avg_team_productivity"`
	TotalCapacityUsed   int     `json:"total_capacity_used"`
	TotalCapacity       int     `json:"total_capacity"`
	OverallUtilization  float64 `json:"overall_utilization"`
}

// DashboardSummary is the read-only aggregation served to operators.
type DashboardSummary struct {
	Summary          DashboardTotals `json:"summary"`
	TeamWorkload     []TeamWorkload  `json:"team_workload"`
	BountyDifficulty map[string]int  `json:"bounty_difficulty"`
	TopPerformers    []Performer     `json:"top_performers"`
	Timestamp        time.Time       `json:"timestamp"`
}
