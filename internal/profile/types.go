// Package profile defines the team profile document, the stable output
// contract all downstream consumers depend on, and the assembler that
// merges primary, derived, and enrichment data into it.
package profile

import (
	"time"

	"teamscout/internal/provider/cbb"
	"teamscout/internal/stats"
)

// Source status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Well-known source names. These double as the fixed rendering order for
// sourceStatuses: primary first, then enrichment sources in declared order.
const (
	SourcePrimary      = "primary"
	SourceKenPom       = "kenpom"
	SourceWikipedia    = "wikipedia"
	SourceCoachArchive = "coachHistory"
	SourceNetRating    = "netRating"
)

// SourceStatus records the outcome of one source invocation for one run.
// Immutable after the source call returns.
type SourceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PreviousSeason is a condensed prior-season summary for one player.
type PreviousSeason struct {
	Season  int           `json:"season"`
	Team    string        `json:"team,omitempty"`
	Games   int           `json:"games"`
	PerGame stats.PerGame `json:"perGame"`
}

// Player is one roster entry with totals, derived rates, and rankings.
type Player struct {
	Name     string `json:"name"`
	Jersey   string `json:"jersey,omitempty"`
	Position string `json:"position,omitempty"`
	Height   string `json:"height,omitempty"`
	Weight   int    `json:"weight,omitempty"`
	Class    string `json:"year,omitempty"`
	Hometown string `json:"hometown,omitempty"`

	Games      int             `json:"games"`
	Starts     int             `json:"starts"`
	Minutes    int             `json:"minutes"`
	Points     int             `json:"points"`
	Assists    int             `json:"assists"`
	Steals     int             `json:"steals"`
	Blocks     int             `json:"blocks"`
	Turnovers  int             `json:"turnovers"`
	Fouls      int             `json:"fouls"`
	FieldGoals cbb.ShotLine    `json:"fieldGoals"`
	ThreePoint cbb.ShotLine    `json:"threePointFieldGoals"`
	FreeThrows cbb.ShotLine    `json:"freeThrows"`
	Rebounds   cbb.ReboundLine `json:"rebounds"`

	PerGame               stats.PerGame `json:"perGame"`
	FieldGoalPct          float64       `json:"fieldGoalPct"`
	ThreePointPct         float64       `json:"threePointPct"`
	FreeThrowPct          float64       `json:"freeThrowPct"`
	AssistToTurnoverRatio float64       `json:"assistToTurnoverRatio"`
	FoulOuts              int           `json:"foulOuts"`
	Ejections             int           `json:"ejections"`

	ConferenceRankings map[string]stats.RankedStat `json:"conferenceRankings,omitempty"`
	GameByGame         []cbb.PlayerGame            `json:"gameByGame,omitempty"`
	PreviousSeasons    []PreviousSeason            `json:"previousSeasons,omitempty"`
}

// TeamStats carries team-level aggregates and efficiency for both sides.
type TeamStats struct {
	Games    int               `json:"games"`
	Totals   cbb.TeamSide      `json:"totals"`
	Opponent cbb.TeamSide      `json:"opponent"`
	Offense  stats.FourFactors `json:"offense"`
	Defense  stats.FourFactors `json:"defense"`
}

// AdvancedMetrics is the kenpom enrichment block.
type AdvancedMetrics struct {
	TeamName                    string  `json:"teamName"`
	Tempo                       float64 `json:"tempo"`
	AdjustedOffensiveEfficiency float64 `json:"adjustedOffensiveEfficiency"`
	AdjustedDefensiveEfficiency float64 `json:"adjustedDefensiveEfficiency"`
	NetRating                   float64 `json:"netRating"`
	StrengthOfSchedule          float64 `json:"strengthOfSchedule"`
	Source                      string  `json:"source"`
	URL                         string  `json:"url,omitempty"`
}

// EncyclopediaMetadata is the wikipedia enrichment block.
type EncyclopediaMetadata struct {
	UniversityName        string `json:"universityName"`
	Mascot                string `json:"mascot,omitempty"`
	HeadCoach             string `json:"headCoach,omitempty"`
	Conference            string `json:"conference,omitempty"`
	Arena                 string `json:"arena,omitempty"`
	Capacity              int    `json:"capacity,omitempty"`
	Championships         int    `json:"championships"`
	TournamentAppearances int    `json:"tournamentAppearances"`
	APRanking             *int   `json:"apRanking,omitempty"`
}

// CoachSeason is one season line in a coach's record.
type CoachSeason struct {
	Season           int    `json:"season"`
	Coach            string `json:"coach"`
	OverallWins      int    `json:"overallWins"`
	OverallLosses    int    `json:"overallLosses"`
	ConferenceWins   int    `json:"conferenceWins"`
	ConferenceLosses int    `json:"conferenceLosses"`
}

// CoachingHistory is the coaching-archive enrichment block.
type CoachingHistory struct {
	Seasons               []CoachSeason `json:"seasons"`
	AverageOverallWins    float64       `json:"averageOverallWins"`
	AverageConferenceWins float64       `json:"averageConferenceWins"`
	WinningestCoach       string        `json:"winningestCoach,omitempty"`
}

// QuadrantRecord is a record against one NET quadrant.
type QuadrantRecord struct {
	Record string `json:"record"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// NetRating is the NET ranking enrichment block.
type NetRating struct {
	Rating         int             `json:"rating"`
	PreviousRating *int            `json:"previousRating,omitempty"`
	Quadrant1      *QuadrantRecord `json:"quadrant1,omitempty"`
	Quadrant2      *QuadrantRecord `json:"quadrant2,omitempty"`
	Quadrant3      *QuadrantRecord `json:"quadrant3,omitempty"`
	Quadrant4      *QuadrantRecord `json:"quadrant4,omitempty"`
	Source         string          `json:"source"`
	URL            string          `json:"url,omitempty"`
}

// Metadata describes the generation run itself.
type Metadata struct {
	PlayerCount     int   `json:"playerCount"`
	PrimaryAPICalls int64 `json:"primaryApiCalls"`
	DurationMS      int64 `json:"durationMs"`
}

// TeamProfile is the final merged scouting document for one team season.
// Enrichment blocks are pointers with omitempty so an absent block means
// its source did not succeed; consumers treat presence as the success
// signal.
type TeamProfile struct {
	Team        string    `json:"team"`
	Season      int       `json:"season"`
	SeasonType  string    `json:"seasonType"`
	GeneratedAt time.Time `json:"generatedAt"`

	Conference string `json:"conference,omitempty"`
	Mascot     string `json:"mascot,omitempty"`
	Arena      string `json:"arena,omitempty"`

	Records   stats.RecordSplits `json:"records"`
	Rankings  []cbb.Ranking      `json:"rankings,omitempty"`
	TeamStats TeamStats          `json:"teamStats"`
	GameLog   []cbb.Game         `json:"gameLog"`
	Roster    []Player           `json:"roster"`

	AdvancedMetrics *AdvancedMetrics      `json:"advancedMetrics,omitempty"`
	Encyclopedia    *EncyclopediaMetadata `json:"encyclopediaMetadata,omitempty"`
	CoachingHistory *CoachingHistory      `json:"coachingHistory,omitempty"`
	NetRating       *NetRating            `json:"netRating,omitempty"`

	SourceStatuses []SourceStatus `json:"sourceStatuses"`
	Metadata       Metadata       `json:"metadata"`
}
