// Package selector ranks all teams for a bounty and picks the winner.
package selector

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/roundup/internal/domain/model"
	"github.com/okian/roundup/internal/domain/scoring"
)

// Select looks up the bounty by id, scores every team, and returns the
// top-ranked one together with human-readable reasoning and the full ranked
// list. There is no viability floor: a team scoring 0 is still selected when
// nothing ranks above it. Viability judgment belongs to the caller.
//
// The sort is stable, so equally scored teams keep their input order.
func Select(bountyID string, teams []model.Team, bounties []model.Bounty) (*model.Assignment, error) {
	var bounty *model.Bounty
	for i := range bounties {
		if bounties[i].ID == bountyID {
			bounty = &bounties[i]
			break
		}
	}
	if bounty == nil {
		return nil, fmt.Errorf("%w: %s", ErrBountyNotFound, bountyID)
	}

	if len(teams) == 0 {
		return nil, ErrNoTeams
	}

	type scored struct {
		team      model.Team
		breakdown model.ScoreBreakdown
	}

	results := make([]scored, 0, len(teams))
	for _, team := range teams {
		results = append(results, scored{
			team:      team,
			breakdown: scoring.Score(team, bounty.RequiredSkills),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].breakdown.Composite > results[j].breakdown.Composite
	})

	ranked := make([]model.RankedScore, 0, len(results))
	for _, r := range results {
		ranked = append(ranked, model.RankedScore{
			TeamID:        r.team.ID,
			TeamName:      r.team.Name,
			Score:         round2(r.breakdown.Composite),
			SkillMatch:    round2(r.breakdown.SkillMatch * 100),
			Productivity:  round2(r.breakdown.Productivity * 100),
			WorkloadScore: round2(r.breakdown.Availability * 100),
		})
	}

	best := results[0]
	return &model.Assignment{
		Team:      best.team,
		FitScore:  round2(best.breakdown.Composite),
		Reasoning: reasoning(best.team, best.breakdown, bounty.RequiredSkills),
		Scores:    ranked,
	}, nil
}

// reasoning explains the pick: matched skill names out of the requirement
// count, productivity as a percentage, and remaining slots. Remaining slots
// are not floored at zero; a negative number flags over-commitment.
func reasoning(team model.Team, b model.ScoreBreakdown, requiredSkills []string) string {
	matched := scoring.MatchedSkills(team.Skills, requiredSkills)

	matchedList := "partial match"
	if len(matched) > 0 {
		matchedList = strings.Join(matched, ", ")
	}

	return fmt.Sprintf(
		"%s selected based on: %d/%d required skills matched (%s), %.0f%% productivity rate, and %d available slots.",
		team.Name,
		len(matched),
		len(requiredSkills),
		matchedList,
		b.Productivity*100,
		team.RemainingSlots(),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
