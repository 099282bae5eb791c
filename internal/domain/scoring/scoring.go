// Package scoring computes the multi-factor fit score between a team and a
// bounty's requirements. It is pure: no I/O, no shared state, no errors.
package scoring

import (
	"strings"

	"github.com/okian/roundup/internal/domain/model"
)

// Fixed policy weights. The composite is scaled to a 0-100 fit score.
const (
	skillWeight        = 0.50
	productivityWeight = 0.30
	workloadWeight     = 0.20

	// neutralProductivity stands in for teams with no stored rate. Missing
	// data reflects an unknown performer, not a zero one.
	neutralProductivity = 0.5

	compositeScale = 100
)

// Score evaluates a team against the required skills of a bounty. Degenerate
// inputs fall back to defaults rather than failing.
func Score(team model.Team, requiredSkills []string) model.ScoreBreakdown {
	match := SkillMatch(team.Skills, requiredSkills)
	productivity := team.Productivity(neutralProductivity)
	availability := Availability(team.CurrentWorkload, team.MaxCapacity)

	composite := (match*skillWeight + productivity*productivityWeight + availability*workloadWeight) * compositeScale

	return model.ScoreBreakdown{
		SkillMatch:   match,
		Productivity: productivity,
		Availability: availability,
		Composite:    composite,
	}
}

// SkillMatch returns the fraction of required skills the team covers, compared
// case-insensitively with exact equality. An empty requirement list is
// vacuously satisfied and yields 1.0.
func SkillMatch(teamSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 1.0
	}

	have := make(map[string]struct{}, len(teamSkills))
	for _, s := range teamSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	matched := 0
	for _, s := range requiredSkills {
		if _, ok := have[strings.ToLower(s)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(requiredSkills))
}

// Availability returns the remaining-capacity fraction (max-cur)/max. Teams
// with zero capacity, or with no remaining slots, score a hard 0: saturated
// teams are never favored regardless of the other factors.
func Availability(currentWorkload, maxCapacity int) float64 {
	if maxCapacity == 0 {
		return 0
	}
	remaining := maxCapacity - currentWorkload
	if remaining <= 0 {
		return 0
	}
	return float64(remaining) / float64(maxCapacity)
}

// MatchedSkills lists the team skills that satisfy a requirement, preserving
// the order they appear in the team's skill set. Used for reasoning output.
func MatchedSkills(teamSkills, requiredSkills []string) []string {
	if len(requiredSkills) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(requiredSkills))
	for _, s := range requiredSkills {
		wanted[strings.ToLower(s)] = struct{}{}
	}

	var matched []string
	for _, s := range teamSkills {
		if _, ok := wanted[strings.ToLower(s)]; ok {
			matched = append(matched, s)
		}
	}
	return matched
}
