package stats

import (
	"sort"

	"teamscout/internal/provider/cbb"
)

// Qualification thresholds for conference stat rankings. Per-game stats
// require 75% of the conference max games played; percentage stats
// additionally require the NCAA minimum made volume per game (2.5 for 3P%
// and FT%, 5.0 for FG%).
const minGamesPct = 0.75

// RankedStat is one player's position in a conference stat category.
type RankedStat struct {
	Rank         int     `json:"rank"`
	TotalPlayers int     `json:"totalPlayers"`
	Value        float64 `json:"value"`
}

// CompetitionRanks assigns 1-based competition ranks to values already
// sorted from best to worst. Ties share the better rank and the next
// distinct value continues numbering as if ties occupied consecutive slots:
// [30, 30, 25, 20, 10] ranks as [1, 1, 3, 4, 5].
func CompetitionRanks(sorted []float64) []int {
	ranks := make([]int, len(sorted))
	for i := range sorted {
		if i > 0 && sorted[i] == sorted[i-1] {
			ranks[i] = ranks[i-1]
		} else {
			ranks[i] = i + 1
		}
	}
	return ranks
}

// statDef describes one rankable category.
type statDef struct {
	name         string
	value        func(p cbb.PlayerSeason) (float64, bool)
	higherBetter bool
	perGameStat  bool
	// volume requirement for percentage stats: made per game from this line
	volumeLine func(p cbb.PlayerSeason) cbb.ShotLine
	volumeMin  float64
}

func rankableStats() []statDef {
	pg := func(total func(p cbb.PlayerSeason) int) func(p cbb.PlayerSeason) (float64, bool) {
		return func(p cbb.PlayerSeason) (float64, bool) {
			if p.Games == 0 {
				return 0, false
			}
			return float64(total(p)) / float64(p.Games), true
		}
	}
	counting := func(total func(p cbb.PlayerSeason) int) func(p cbb.PlayerSeason) (float64, bool) {
		return func(p cbb.PlayerSeason) (float64, bool) { return float64(total(p)), true }
	}
	pct := func(line func(p cbb.PlayerSeason) cbb.ShotLine) func(p cbb.PlayerSeason) (float64, bool) {
		return func(p cbb.PlayerSeason) (float64, bool) {
			l := line(p)
			if l.Attempted == 0 {
				return 0, false
			}
			return 100 * float64(l.Made) / float64(l.Attempted), true
		}
	}

	return []statDef{
		{name: "pointsPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Points }), higherBetter: true, perGameStat: true},
		{name: "reboundsPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Rebounds.Total }), higherBetter: true, perGameStat: true},
		{name: "assistsPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Assists }), higherBetter: true, perGameStat: true},
		{name: "stealsPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Steals }), higherBetter: true, perGameStat: true},
		{name: "blocksPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Blocks }), higherBetter: true, perGameStat: true},
		{name: "minutesPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Minutes }), higherBetter: true, perGameStat: true},
		{name: "turnoversPerGame", value: pg(func(p cbb.PlayerSeason) int { return p.Turnovers }), higherBetter: false, perGameStat: true},
		{
			name: "fieldGoalPct", value: pct(func(p cbb.PlayerSeason) cbb.ShotLine { return p.FieldGoals }),
			higherBetter: true, perGameStat: true,
			volumeLine: func(p cbb.PlayerSeason) cbb.ShotLine { return p.FieldGoals }, volumeMin: 5.0,
		},
		{
			name: "threePointPct", value: pct(func(p cbb.PlayerSeason) cbb.ShotLine { return p.ThreePoint }),
			higherBetter: true, perGameStat: true,
			volumeLine: func(p cbb.PlayerSeason) cbb.ShotLine { return p.ThreePoint }, volumeMin: 2.5,
		},
		{
			name: "freeThrowPct", value: pct(func(p cbb.PlayerSeason) cbb.ShotLine { return p.FreeThrows }),
			higherBetter: true, perGameStat: true,
			volumeLine: func(p cbb.PlayerSeason) cbb.ShotLine { return p.FreeThrows }, volumeMin: 2.5,
		},
		{
			name: "assistToTurnoverRatio",
			value: func(p cbb.PlayerSeason) (float64, bool) {
				if p.Games == 0 {
					return 0, false
				}
				return AssistTurnoverRatio(p.Assists, p.Turnovers), true
			},
			higherBetter: true, perGameStat: true,
		},
		{name: "totalPoints", value: counting(func(p cbb.PlayerSeason) int { return p.Points }), higherBetter: true},
		{name: "totalRebounds", value: counting(func(p cbb.PlayerSeason) int { return p.Rebounds.Total }), higherBetter: true},
		{name: "totalAssists", value: counting(func(p cbb.PlayerSeason) int { return p.Assists }), higherBetter: true},
		{name: "totalBlocks", value: counting(func(p cbb.PlayerSeason) int { return p.Blocks }), higherBetter: true},
		{name: "totalSteals", value: counting(func(p cbb.PlayerSeason) int { return p.Steals }), higherBetter: true},
		{name: "fieldGoalsMade", value: counting(func(p cbb.PlayerSeason) int { return p.FieldGoals.Made }), higherBetter: true},
		{name: "threePointFieldGoalsMade", value: counting(func(p cbb.PlayerSeason) int { return p.ThreePoint.Made }), higherBetter: true},
		{name: "freeThrowsMade", value: counting(func(p cbb.PlayerSeason) int { return p.FreeThrows.Made }), higherBetter: true},
	}
}

// ConferenceRankings ranks one player against conference peers across all
// rankable categories. The returned map is keyed by category name and
// omits categories the player does not qualify for.
func ConferenceRankings(conferencePlayers []cbb.PlayerSeason, playerName string) map[string]RankedStat {
	target := cbb.NormalizeName(playerName)

	maxGames := 0
	for _, p := range conferencePlayers {
		if p.Games > maxGames {
			maxGames = p.Games
		}
	}
	minGames := int(float64(maxGames) * minGamesPct)

	rankings := make(map[string]RankedStat)
	for _, def := range rankableStats() {
		type entry struct {
			value float64
			name  string
		}
		var entries []entry
		for _, p := range conferencePlayers {
			if def.perGameStat && p.Games < minGames {
				continue
			}
			if def.volumeLine != nil {
				if p.Games == 0 || float64(def.volumeLine(p).Made)/float64(p.Games) < def.volumeMin {
					continue
				}
			}
			v, ok := def.value(p)
			if !ok {
				continue
			}
			entries = append(entries, entry{value: v, name: cbb.NormalizeName(p.Name)})
		}

		sort.SliceStable(entries, func(i, j int) bool {
			if def.higherBetter {
				return entries[i].value > entries[j].value
			}
			return entries[i].value < entries[j].value
		})

		values := make([]float64, len(entries))
		for i, e := range entries {
			values[i] = e.value
		}
		ranks := CompetitionRanks(values)

		for i, e := range entries {
			if e.name == target {
				rankings[def.name] = RankedStat{
					Rank:         ranks[i],
					TotalPlayers: len(entries),
					Value:        round1(e.value),
				}
				break
			}
		}
	}
	return rankings
}
