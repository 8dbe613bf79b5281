// Package stats computes derived statistics from raw provider data:
// per-game rates, shooting percentages, four-factors efficiency, win/loss
// record splits, and conference-relative rankings. Everything here is a
// pure function; malformed input is a caller bug, not a runtime condition.
package stats

import (
	"math"

	"teamscout/internal/provider/cbb"
)

// PerGame holds a player's per-game rates.
type PerGame struct {
	Minutes   float64 `json:"mpg"`
	Points    float64 `json:"ppg"`
	Rebounds  float64 `json:"rpg"`
	Assists   float64 `json:"apg"`
	Steals    float64 `json:"spg"`
	Blocks    float64 `json:"bpg"`
	Turnovers float64 `json:"topg"`
}

// PerGameRates computes a player's per-game averages. Zero games yields
// zero rates, not a division error.
func PerGameRates(p cbb.PlayerSeason) PerGame {
	return PerGame{
		Minutes:   Rate(p.Minutes, p.Games),
		Points:    Rate(p.Points, p.Games),
		Rebounds:  Rate(p.Rebounds.Total, p.Games),
		Assists:   Rate(p.Assists, p.Games),
		Steals:    Rate(p.Steals, p.Games),
		Blocks:    Rate(p.Blocks, p.Games),
		Turnovers: Rate(p.Turnovers, p.Games),
	}
}

// Rate is total divided by games, rounded to one decimal, 0 when games is 0.
func Rate(total, games int) float64 {
	if games == 0 {
		return 0
	}
	return round1(float64(total) / float64(games))
}

// Pct converts a made/attempted line to a percentage in [0, 100].
func Pct(line cbb.ShotLine) float64 {
	if line.Attempted == 0 {
		return 0
	}
	return round1(100 * float64(line.Made) / float64(line.Attempted))
}

// AssistTurnoverRatio is assists per turnover; with zero turnovers the
// assist count itself is reported, matching the scoreboard convention.
func AssistTurnoverRatio(assists, turnovers int) float64 {
	if turnovers == 0 {
		return float64(assists)
	}
	return round1(float64(assists) / float64(turnovers))
}

// FourFactors are the standard possession-efficiency ratios, expressed as
// percentages in [0, 100].
type FourFactors struct {
	EffectiveFGPct      float64 `json:"effectiveFieldGoalPct"`
	TurnoverRatio       float64 `json:"turnoverRatio"`
	OffensiveReboundPct float64 `json:"offensiveReboundPct"`
	FreeThrowRate       float64 `json:"freeThrowRate"`
}

// Factors computes four factors for one side of the ball. The opponent side
// is needed for offensive-rebound percentage; passing the sides swapped
// yields the defensive view.
func Factors(side, opp cbb.TeamSide) FourFactors {
	return FourFactors{
		EffectiveFGPct:      effectiveFG(side.FieldGoals, side.ThreePoint),
		TurnoverRatio:       turnoverRatio(side),
		OffensiveReboundPct: pctOf(side.Rebounds.Offensive, side.Rebounds.Offensive+opp.Rebounds.Defensive),
		FreeThrowRate:       pctOf(side.FreeThrows.Made, side.FieldGoals.Attempted),
	}
}

func effectiveFG(fg, three cbb.ShotLine) float64 {
	if fg.Attempted == 0 {
		return 0
	}
	return round1(100 * (float64(fg.Made) + 0.5*float64(three.Made)) / float64(fg.Attempted))
}

func turnoverRatio(side cbb.TeamSide) float64 {
	possessions := float64(side.FieldGoals.Attempted) + 0.44*float64(side.FreeThrows.Attempted) + float64(side.Turnovers)
	if possessions == 0 {
		return 0
	}
	return round1(100 * float64(side.Turnovers) / possessions)
}

func pctOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(100 * float64(part) / float64(whole))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
