package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"teamscout/internal/profile"
)

// NetRating fetches the team's NET ranking and quadrant records.
type NetRating struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNetRating creates the NET ranking adapter. httpClient may be nil.
func NewNetRating(baseURL string, httpClient *http.Client, logger *slog.Logger) *NetRating {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NetRating{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

func (n *NetRating) Name() string { return profile.SourceNetRating }

type quadrantRow struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type netRatingRow struct {
	Rating         int          `json:"rating"`
	PreviousRating *int         `json:"previousRating"`
	Quadrant1      *quadrantRow `json:"quadrant1"`
	Quadrant2      *quadrantRow `json:"quadrant2"`
	Quadrant3      *quadrantRow `json:"quadrant3"`
	Quadrant4      *quadrantRow `json:"quadrant4"`
}

// Fetch returns the current NET ranking for the team season.
func (n *NetRating) Fetch(ctx context.Context, team string, season int) Result {
	if n.baseURL == "" {
		return Skipped(notConfigured)
	}

	u := fmt.Sprintf("%s/net?team=%s&season=%d", n.baseURL, url.QueryEscape(team), season)
	var row netRatingRow
	if err := getJSON(ctx, n.httpClient, u, nil, &row); err != nil {
		n.logger.Warn("net rating fetch failed", "team", team, "season", season, "error", err)
		return Failed(err.Error())
	}
	if row.Rating == 0 {
		return Failed(fmt.Sprintf("no NET rating for %q in %d", team, season))
	}

	block := &profile.NetRating{
		Rating:         row.Rating,
		PreviousRating: row.PreviousRating,
		Quadrant1:      quadrant(row.Quadrant1),
		Quadrant2:      quadrant(row.Quadrant2),
		Quadrant3:      quadrant(row.Quadrant3),
		Quadrant4:      quadrant(row.Quadrant4),
		Source:         "NCAA NET",
		URL:            n.baseURL,
	}
	return Success("NET rating fetched", block)
}

func quadrant(q *quadrantRow) *profile.QuadrantRecord {
	if q == nil {
		return nil
	}
	return &profile.QuadrantRecord{
		Record: fmt.Sprintf("%d-%d", q.Wins, q.Losses),
		Wins:   q.Wins,
		Losses: q.Losses,
	}
}
