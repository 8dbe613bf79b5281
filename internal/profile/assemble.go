package profile

import (
	"log/slog"
	"sort"
	"time"

	"teamscout/internal/provider/cbb"
	"teamscout/internal/stats"
)

// SourceOrder is the fixed rendering order for source statuses in the
// final document, independent of completion order.
var SourceOrder = []string{
	SourcePrimary,
	SourceKenPom,
	SourceWikipedia,
	SourceCoachArchive,
	SourceNetRating,
}

// OrderStatuses returns the resolved statuses sorted by SourceOrder.
// Unknown names sort after the known ones, alphabetically.
func OrderStatuses(byName map[string]SourceStatus) []SourceStatus {
	pos := make(map[string]int, len(SourceOrder))
	for i, name := range SourceOrder {
		pos[name] = i
	}
	out := make([]SourceStatus, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, iKnown := pos[out[i].Name]
		pj, jKnown := pos[out[j].Name]
		switch {
		case iKnown && jKnown:
			return pi < pj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

// AssembleInput is everything the assembler merges. Enrichment block
// pointers are nil unless their adapter succeeded; the assembler writes a
// block wholesale or not at all.
type AssembleInput struct {
	Meta       cbb.TeamMeta
	Season     int
	GameLog    []cbb.Game
	TeamSeason cbb.TeamSeason
	Rankings   []cbb.Ranking
	Roster     []Player

	Advanced     *AdvancedMetrics
	Encyclopedia *EncyclopediaMetadata
	Coaching     *CoachingHistory
	NetRating    *NetRating

	Statuses        map[string]SourceStatus
	PrimaryAPICalls int64
	Duration        time.Duration
}

// Assemble merges primary data, derived stats, and successful enrichment
// blocks into the final document. Only primary-derived fields are
// mandatory; the document is schema-valid with every enrichment block
// absent.
func Assemble(in AssembleInput, logger *slog.Logger) *TeamProfile {
	if logger == nil {
		logger = slog.Default()
	}

	roster := make([]Player, len(in.Roster))
	copy(roster, in.Roster)
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].PerGame.Minutes > roster[j].PerGame.Minutes
	})

	p := &TeamProfile{
		Team:        in.Meta.Team,
		Season:      in.Season,
		SeasonType:  "regular",
		GeneratedAt: time.Now().UTC(),
		Conference:  in.Meta.Conference,
		Mascot:      in.Meta.Mascot,
		Arena:       in.Meta.Arena,
		Records:     stats.Records(in.GameLog),
		Rankings:    in.Rankings,
		TeamStats: TeamStats{
			Games:    in.TeamSeason.Games,
			Totals:   in.TeamSeason.Totals,
			Opponent: in.TeamSeason.Opponent,
			Offense:  stats.Factors(in.TeamSeason.Totals, in.TeamSeason.Opponent),
			Defense:  stats.Factors(in.TeamSeason.Opponent, in.TeamSeason.Totals),
		},
		GameLog: in.GameLog,
		Roster:  roster,

		AdvancedMetrics: in.Advanced,
		Encyclopedia:    in.Encyclopedia,
		CoachingHistory: in.Coaching,
		NetRating:       in.NetRating,

		SourceStatuses: OrderStatuses(in.Statuses),
		Metadata: Metadata{
			PlayerCount:     len(roster),
			PrimaryAPICalls: in.PrimaryAPICalls,
			DurationMS:      in.Duration.Milliseconds(),
		},
	}

	// Schema check is advisory, mirroring the formatter contract. A warning
	// here means a provider shape changed, not that assembly failed.
	for _, warning := range Validate(p) {
		logger.Warn("profile schema warning", "team", p.Team, "season", p.Season, "warning", warning)
	}

	return p
}
