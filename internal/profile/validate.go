package profile

import (
	"fmt"

	"teamscout/internal/provider/cbb"
)

// Validate checks the assembled document against the output contract and
// returns human-readable warnings. It never fails the run.
func Validate(p *TeamProfile) []string {
	var warnings []string

	if p.Team == "" {
		warnings = append(warnings, "team name is empty")
	}
	if p.Season == 0 {
		warnings = append(warnings, "season is zero")
	}

	for _, pl := range p.Roster {
		for _, line := range []struct {
			name string
			cbb.ShotLine
		}{
			{"fieldGoals", pl.FieldGoals},
			{"threePointFieldGoals", pl.ThreePoint},
			{"freeThrows", pl.FreeThrows},
		} {
			if line.Made > line.Attempted {
				warnings = append(warnings,
					fmt.Sprintf("player %q %s: made %d exceeds attempted %d", pl.Name, line.name, line.Made, line.Attempted))
			}
		}
		for _, pct := range []struct {
			name  string
			value float64
		}{
			{"fieldGoalPct", pl.FieldGoalPct},
			{"threePointPct", pl.ThreePointPct},
			{"freeThrowPct", pl.FreeThrowPct},
		} {
			if pct.value < 0 || pct.value > 100 {
				warnings = append(warnings,
					fmt.Sprintf("player %q %s out of range: %.1f", pl.Name, pct.name, pct.value))
			}
		}
	}

	if len(p.SourceStatuses) == 0 {
		warnings = append(warnings, "sourceStatuses is empty")
	}

	return warnings
}
