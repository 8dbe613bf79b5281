package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamscout/internal/provider/cbb"
)

func TestPerGameRates(t *testing.T) {
	t.Parallel()

	player := cbb.PlayerSeason{
		Games:   30,
		Minutes: 900,
		Points:  450,
		Assists: 120,
		Steals:  45,
		Blocks:  15,
		Rebounds: cbb.ReboundLine{
			Offensive: 60, Defensive: 120, Total: 180,
		},
		Turnovers: 60,
	}

	pg := PerGameRates(player)
	assert.Equal(t, 30.0, pg.Minutes)
	assert.Equal(t, 15.0, pg.Points)
	assert.Equal(t, 4.0, pg.Assists)
	assert.Equal(t, 1.5, pg.Steals)
	assert.Equal(t, 0.5, pg.Blocks)
	assert.Equal(t, 6.0, pg.Rebounds)
	assert.Equal(t, 2.0, pg.Turnovers)
}

func TestPerGameRatesZeroGames(t *testing.T) {
	t.Parallel()

	pg := PerGameRates(cbb.PlayerSeason{Points: 100})
	assert.Zero(t, pg.Points)
	assert.Zero(t, pg.Minutes)
	assert.Zero(t, pg.Rebounds)
}

func TestRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int
		games int
		want  float64
	}{
		{"exact division", 450, 30, 15.0},
		{"rounds to one decimal", 100, 3, 33.3},
		{"rounds up", 50, 3, 16.7},
		{"zero games", 100, 0, 0},
		{"zero total", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.total, tt.games))
		})
	}
}

func TestPct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50.0, Pct(cbb.ShotLine{Made: 5, Attempted: 10}))
	assert.Equal(t, 33.3, Pct(cbb.ShotLine{Made: 1, Attempted: 3}))
	assert.Zero(t, Pct(cbb.ShotLine{}))
}

func TestAssistTurnoverRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.5, AssistTurnoverRatio(125, 50))
	// Zero turnovers reports the assist count itself.
	assert.Equal(t, 12.0, AssistTurnoverRatio(12, 0))
}

func TestFactors(t *testing.T) {
	t.Parallel()

	team := cbb.TeamSide{
		FieldGoals: cbb.ShotLine{Made: 800, Attempted: 1800},
		ThreePoint: cbb.ShotLine{Made: 200, Attempted: 600},
		FreeThrows: cbb.ShotLine{Made: 400, Attempted: 500},
		Rebounds:   cbb.ReboundLine{Offensive: 300, Defensive: 700, Total: 1000},
		Turnovers:  350,
	}
	opp := cbb.TeamSide{
		FieldGoals: cbb.ShotLine{Made: 750, Attempted: 1750},
		ThreePoint: cbb.ShotLine{Made: 180, Attempted: 550},
		FreeThrows: cbb.ShotLine{Made: 350, Attempted: 450},
		Rebounds:   cbb.ReboundLine{Offensive: 280, Defensive: 720, Total: 1000},
		Turnovers:  380,
	}

	off := Factors(team, opp)

	// eFG% = (800 + 0.5*200) / 1800 = 50.0
	assert.Equal(t, 50.0, off.EffectiveFGPct)
	// TOV ratio = 350 / (1800 + 0.44*500 + 350) = 14.77 -> 14.8
	assert.Equal(t, 14.8, off.TurnoverRatio)
	// ORB% = 300 / (300 + 720) = 29.41 -> 29.4
	assert.Equal(t, 29.4, off.OffensiveReboundPct)
	// FT rate = 400 / 1800 = 22.22 -> 22.2
	assert.Equal(t, 22.2, off.FreeThrowRate)

	// The defensive view is the same formula with the sides swapped.
	def := Factors(opp, team)
	assert.Equal(t, 48.0, def.EffectiveFGPct)
	assert.Equal(t, 28.6, def.OffensiveReboundPct)
}

func TestFactorsZeroDenominators(t *testing.T) {
	t.Parallel()

	f := Factors(cbb.TeamSide{}, cbb.TeamSide{})
	assert.Zero(t, f.EffectiveFGPct)
	assert.Zero(t, f.TurnoverRatio)
	assert.Zero(t, f.OffensiveReboundPct)
	assert.Zero(t, f.FreeThrowRate)
}
