package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"

	"teamscout/internal/profile"
)

// CoachArchive fetches season-by-season coaching records from a historical
// archive and summarizes them (averages, winningest coach).
type CoachArchive struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCoachArchive creates the coaching-history adapter. httpClient may be nil.
func NewCoachArchive(baseURL string, httpClient *http.Client, logger *slog.Logger) *CoachArchive {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CoachArchive{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

func (c *CoachArchive) Name() string { return profile.SourceCoachArchive }

type coachSeasonRow struct {
	Season           int    `json:"season"`
	Coach            string `json:"coach"`
	OverallWins      int    `json:"overallWins"`
	OverallLosses    int    `json:"overallLosses"`
	ConferenceWins   int    `json:"conferenceWins"`
	ConferenceLosses int    `json:"conferenceLosses"`
}

// Fetch returns the program's coaching history through the given season.
func (c *CoachArchive) Fetch(ctx context.Context, team string, season int) Result {
	if c.baseURL == "" {
		return Skipped(notConfigured)
	}

	u := fmt.Sprintf("%s/coaches?team=%s&through=%d", c.baseURL, url.QueryEscape(team), season)
	var rows []coachSeasonRow
	if err := getJSON(ctx, c.httpClient, u, nil, &rows); err != nil {
		c.logger.Warn("coach archive fetch failed", "team", team, "error", err)
		return Failed(err.Error())
	}
	if len(rows) == 0 {
		return Failed(fmt.Sprintf("no coaching records for %q", team))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Season > rows[j].Season })

	block := &profile.CoachingHistory{Seasons: make([]profile.CoachSeason, 0, len(rows))}
	var overallWins, confWins int
	winsByCoach := make(map[string]int)
	for _, r := range rows {
		block.Seasons = append(block.Seasons, profile.CoachSeason(r))
		overallWins += r.OverallWins
		confWins += r.ConferenceWins
		winsByCoach[r.Coach] += r.OverallWins
	}
	n := float64(len(rows))
	block.AverageOverallWins = math.Round(float64(overallWins)/n*10) / 10
	block.AverageConferenceWins = math.Round(float64(confWins)/n*10) / 10

	best := 0
	for coach, wins := range winsByCoach {
		if wins > best || (wins == best && coach < block.WinningestCoach) {
			best = wins
			block.WinningestCoach = coach
		}
	}

	return Success(fmt.Sprintf("%d coaching seasons", len(rows)), block)
}
