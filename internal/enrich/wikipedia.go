package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"teamscout/internal/profile"
)

// Wikipedia fetches program metadata (coach, arena, championships) from the
// encyclopedia REST API. No credential is needed, but an empty base URL
// disables the source.
type Wikipedia struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWikipedia creates the encyclopedia adapter. httpClient may be nil.
func NewWikipedia(baseURL string, httpClient *http.Client, logger *slog.Logger) *Wikipedia {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Wikipedia{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

func (w *Wikipedia) Name() string { return profile.SourceWikipedia }

type wikiProgram struct {
	University            string `json:"university"`
	Mascot                string `json:"mascot"`
	HeadCoach             string `json:"headCoach"`
	Conference            string `json:"conference"`
	Arena                 string `json:"arena"`
	Capacity              int    `json:"capacity"`
	NCAAChampionships     int    `json:"ncaaChampionships"`
	TournamentAppearances int    `json:"tournamentAppearances"`
	APRanking             *int   `json:"apRanking"`
}

// Fetch returns program metadata for the team's basketball page.
func (w *Wikipedia) Fetch(ctx context.Context, team string, _ int) Result {
	if w.baseURL == "" {
		return Skipped(notConfigured)
	}

	title := url.PathEscape(team + " men's basketball")
	u := fmt.Sprintf("%s/page/program/%s", w.baseURL, title)
	var prog wikiProgram
	if err := getJSON(ctx, w.httpClient, u, nil, &prog); err != nil {
		w.logger.Warn("wikipedia fetch failed", "team", team, "error", err)
		return Failed(err.Error())
	}
	if prog.University == "" {
		return Failed(fmt.Sprintf("no program page for %q", team))
	}

	block := &profile.EncyclopediaMetadata{
		UniversityName:        prog.University,
		Mascot:                prog.Mascot,
		HeadCoach:             prog.HeadCoach,
		Conference:            prog.Conference,
		Arena:                 prog.Arena,
		Capacity:              prog.Capacity,
		Championships:         prog.NCAAChampionships,
		TournamentAppearances: prog.TournamentAppearances,
		APRanking:             prog.APRanking,
	}
	return Success("program metadata fetched", block)
}
