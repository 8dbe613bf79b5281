package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"teamscout/internal/profile"
)

// KenPom fetches advanced efficiency metrics. Requires an API key; without
// one it reports skipped.
type KenPom struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewKenPom creates the kenpom adapter. httpClient may be nil.
func NewKenPom(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *KenPom {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KenPom{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient, logger: logger}
}

func (k *KenPom) Name() string { return profile.SourceKenPom }

type kenpomRating struct {
	TeamName string  `json:"team"`
	Tempo    float64 `json:"adjT"`
	AdjO     float64 `json:"adjO"`
	AdjD     float64 `json:"adjD"`
	AdjEM    float64 `json:"adjEM"`
	SOS      float64 `json:"sos"`
}

// Fetch returns the team's efficiency profile for the season.
func (k *KenPom) Fetch(ctx context.Context, team string, season int) Result {
	if k.apiKey == "" {
		return Skipped(notConfigured)
	}

	u := fmt.Sprintf("%s/ratings?team=%s&season=%d", k.baseURL, url.QueryEscape(team), season)
	var rating kenpomRating
	header := http.Header{"Authorization": {"Bearer " + k.apiKey}}
	if err := getJSON(ctx, k.httpClient, u, header, &rating); err != nil {
		k.logger.Warn("kenpom fetch failed", "team", team, "season", season, "error", err)
		return Failed(err.Error())
	}
	if rating.TeamName == "" {
		return Failed(fmt.Sprintf("no rating for %q in %d", team, season))
	}

	block := &profile.AdvancedMetrics{
		TeamName:                    rating.TeamName,
		Tempo:                       rating.Tempo,
		AdjustedOffensiveEfficiency: rating.AdjO,
		AdjustedDefensiveEfficiency: rating.AdjD,
		NetRating:                   rating.AdjEM,
		StrengthOfSchedule:          rating.SOS,
		Source:                      "kenpom",
		URL:                         fmt.Sprintf("https://kenpom.com/team.php?team=%s&y=%d", url.QueryEscape(rating.TeamName), season),
	}
	return Success("efficiency metrics fetched", block)
}
