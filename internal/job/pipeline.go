package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"teamscout/internal/cache"
	"teamscout/internal/enrich"
	"teamscout/internal/profile"
	"teamscout/internal/provider/cbb"
	"teamscout/internal/stats"
)

// ErrCancelled marks a run stopped by cooperative cancellation.
var ErrCancelled = errors.New("generation cancelled")

// PrimarySource is the primary provider surface the pipeline needs.
// *cbb.Client satisfies it; tests substitute fakes.
type PrimarySource interface {
	GetTeamMeta(ctx context.Context, team string, season int) (cbb.TeamMeta, error)
	GetRoster(ctx context.Context, team string, season int) ([]cbb.RosterEntry, error)
	GetGameLog(ctx context.Context, team string, season int) ([]cbb.Game, error)
	GetTeamSeasonStats(ctx context.Context, team string, season int) (cbb.TeamSeason, error)
	GetRankings(ctx context.Context, team string, season int) ([]cbb.Ranking, error)
	GetTeamPlayerStats(ctx context.Context, team string, season int) ([]cbb.PlayerSeason, error)
	GetConferencePlayers(ctx context.Context, conference string, season int) ([]cbb.PlayerSeason, error)
	GetPlayerGameStats(ctx context.Context, team string, season int) (map[string][]cbb.PlayerGame, error)
	GetPlayerSeasonStats(ctx context.Context, player string, season int) (cbb.PlayerSeason, error)
	Calls() int64
}

// Observer receives progress and per-source updates as the run advances.
// Either callback may be nil.
type Observer struct {
	Progress func(pct int, msg string)
	Source   func(s profile.SourceStatus)
}

func (o Observer) progress(pct int, msg string) {
	if o.Progress != nil {
		o.Progress(pct, msg)
	}
}

func (o Observer) source(s profile.SourceStatus) {
	if o.Source != nil {
		o.Source(s)
	}
}

// Pipeline runs one profile generation end to end. It is stateless across
// runs; concurrent runs share only the primary client's rate limiter and
// the historical cache.
type Pipeline struct {
	Primary         PrimarySource
	Cache           cache.Store
	Adapters        []enrich.Adapter
	AdapterTimeout  time.Duration
	PrevSeasonDepth int
	Logger          *slog.Logger
}

// primaryData is everything fetched during the primary stage.
type primaryData struct {
	meta        cbb.TeamMeta
	roster      []cbb.RosterEntry
	gameLog     []cbb.Game
	teamSeason  cbb.TeamSeason
	rankings    []cbb.Ranking
	teamPlayers []cbb.PlayerSeason
	confPlayers []cbb.PlayerSeason
	playerGames map[string][]cbb.PlayerGame
}

// Run executes the pipeline: primary stage, enrichment fan-out, derived
// stats, assembly. Cancellation is checked between stages, never mid-call.
// A primary-stage failure aborts before any adapter is invoked.
func (p *Pipeline) Run(ctx context.Context, team string, season int, forceRefresh bool, obs Observer) (*profile.TeamProfile, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	callsBefore := p.Primary.Calls()
	statuses := make(map[string]profile.SourceStatus)
	record := func(s profile.SourceStatus) {
		statuses[s.Name] = s
		obs.source(s)
	}

	obs.progress(2, "validating request")
	if team == "" {
		return nil, fmt.Errorf("team is required")
	}

	// Primary stage. Any failure here is pipeline-fatal: without primary
	// data there is nothing to assemble, so adapters are never attempted.
	data, err := p.fetchPrimary(ctx, team, season, obs)
	if err != nil {
		record(profile.SourceStatus{
			Name:    profile.SourcePrimary,
			Status:  profile.StatusFailed,
			Message: string(cbb.FailureReason(err)),
		})
		return nil, fmt.Errorf("primary stage: %w", err)
	}
	record(profile.SourceStatus{
		Name:    profile.SourcePrimary,
		Status:  profile.StatusSuccess,
		Message: fmt.Sprintf("%d players, %d games", len(data.teamPlayers), len(data.gameLog)),
	})
	obs.progress(30, "primary data complete")

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Enrichment fan-out. Adapters have no data dependency on each other
	// and run concurrently; each outcome is recorded as soon as it
	// resolves. Failures here only degrade sourceStatuses.
	obs.progress(35, "fetching enrichment sources")
	blocks := p.runAdapters(ctx, team, season, record)
	obs.progress(55, "enrichment sources resolved")

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	obs.progress(60, "computing derived statistics")
	roster := p.buildRoster(ctx, data, season, forceRefresh, logger)
	obs.progress(90, "derived statistics complete")

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	obs.progress(95, "assembling profile")
	doc := profile.Assemble(profile.AssembleInput{
		Meta:            data.meta,
		Season:          season,
		GameLog:         data.gameLog,
		TeamSeason:      data.teamSeason,
		Rankings:        data.rankings,
		Roster:          roster,
		Advanced:        blocks.advanced,
		Encyclopedia:    blocks.encyclopedia,
		Coaching:        blocks.coaching,
		NetRating:       blocks.netRating,
		Statuses:        statuses,
		PrimaryAPICalls: p.Primary.Calls() - callsBefore,
		Duration:        time.Since(start),
	}, logger)

	return doc, nil
}

func (p *Pipeline) fetchPrimary(ctx context.Context, team string, season int, obs Observer) (*primaryData, error) {
	var data primaryData
	var err error

	obs.progress(5, "fetching team data")
	if data.meta, err = p.Primary.GetTeamMeta(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(10, "fetching roster")
	if data.roster, err = p.Primary.GetRoster(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(14, "fetching game log")
	if data.gameLog, err = p.Primary.GetGameLog(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(18, "fetching team season stats")
	if data.teamSeason, err = p.Primary.GetTeamSeasonStats(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(21, "fetching rankings")
	if data.rankings, err = p.Primary.GetRankings(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(24, "fetching player season stats")
	if data.teamPlayers, err = p.Primary.GetTeamPlayerStats(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(26, "fetching player game stats")
	if data.playerGames, err = p.Primary.GetPlayerGameStats(ctx, team, season); err != nil {
		return nil, err
	}
	obs.progress(28, "fetching conference players")
	if data.confPlayers, err = p.Primary.GetConferencePlayers(ctx, data.meta.Conference, season); err != nil {
		return nil, err
	}
	return &data, nil
}

// enrichmentBlocks holds whichever adapter blocks succeeded.
type enrichmentBlocks struct {
	advanced     *profile.AdvancedMetrics
	encyclopedia *profile.EncyclopediaMetadata
	coaching     *profile.CoachingHistory
	netRating    *profile.NetRating
}

func (p *Pipeline) runAdapters(ctx context.Context, team string, season int, record func(profile.SourceStatus)) enrichmentBlocks {
	results := make([]enrich.Result, len(p.Adapters))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, a := range p.Adapters {
		wg.Add(1)
		go func(i int, a enrich.Adapter) {
			defer wg.Done()
			actx := ctx
			if p.AdapterTimeout > 0 {
				var cancel context.CancelFunc
				actx, cancel = context.WithTimeout(ctx, p.AdapterTimeout)
				defer cancel()
			}
			res := enrich.Invoke(actx, a, team, season)
			results[i] = res
			mu.Lock()
			record(profile.SourceStatus{Name: a.Name(), Status: res.Status, Message: res.Message})
			mu.Unlock()
		}(i, a)
	}
	wg.Wait()

	var blocks enrichmentBlocks
	for _, res := range results {
		if res.Status != profile.StatusSuccess {
			continue
		}
		switch data := res.Data.(type) {
		case *profile.AdvancedMetrics:
			blocks.advanced = data
		case *profile.EncyclopediaMetadata:
			blocks.encyclopedia = data
		case *profile.CoachingHistory:
			blocks.coaching = data
		case *profile.NetRating:
			blocks.netRating = data
		}
	}
	return blocks
}

// buildRoster merges roster identity with season totals and computes all
// derived player stats, including prior-season summaries via the cache.
func (p *Pipeline) buildRoster(ctx context.Context, data *primaryData, season int, forceRefresh bool, logger *slog.Logger) []profile.Player {
	rosterByName := make(map[string]cbb.RosterEntry, len(data.roster))
	for _, r := range data.roster {
		rosterByName[cbb.NormalizeName(r.Name)] = r
	}

	players := make([]profile.Player, 0, len(data.teamPlayers))
	for _, ps := range data.teamPlayers {
		key := cbb.NormalizeName(ps.Name)
		entry := rosterByName[key]

		pl := profile.Player{
			Name:       ps.Name,
			Jersey:     firstNonEmpty(entry.Jersey, ps.Jersey),
			Position:   firstNonEmpty(entry.Position, ps.Position),
			Height:     entry.Height,
			Weight:     entry.Weight,
			Class:      entry.Class,
			Hometown:   entry.Hometown,
			Games:      ps.Games,
			Starts:     ps.Starts,
			Minutes:    ps.Minutes,
			Points:     ps.Points,
			Assists:    ps.Assists,
			Steals:     ps.Steals,
			Blocks:     ps.Blocks,
			Turnovers:  ps.Turnovers,
			Fouls:      ps.Fouls,
			FieldGoals: ps.FieldGoals,
			ThreePoint: ps.ThreePoint,
			FreeThrows: ps.FreeThrows,
			Rebounds:   ps.Rebounds,

			PerGame:               stats.PerGameRates(ps),
			FieldGoalPct:          stats.Pct(ps.FieldGoals),
			ThreePointPct:         stats.Pct(ps.ThreePoint),
			FreeThrowPct:          stats.Pct(ps.FreeThrows),
			AssistToTurnoverRatio: stats.AssistTurnoverRatio(ps.Assists, ps.Turnovers),

			ConferenceRankings: stats.ConferenceRankings(data.confPlayers, ps.Name),
			GameByGame:         data.playerGames[key],
		}
		if pl.GameByGame == nil {
			pl.GameByGame = data.playerGames[ps.Name]
		}
		for _, g := range pl.GameByGame {
			if g.Fouls >= 5 {
				pl.FoulOuts++
			}
			if g.Ejected {
				pl.Ejections++
			}
		}
		pl.PreviousSeasons = p.previousSeasons(ctx, ps.Name, season, forceRefresh, logger)

		players = append(players, pl)
	}
	return players
}

// previousSeasons returns prior-season summaries, newest first, read
// through the historical cache. A season the player did not play is simply
// absent; fetch errors cost only that one summary.
func (p *Pipeline) previousSeasons(ctx context.Context, player string, season int, forceRefresh bool, logger *slog.Logger) []profile.PreviousSeason {
	depth := p.PrevSeasonDepth
	if depth <= 0 || p.Cache == nil {
		return nil
	}

	var out []profile.PreviousSeason
	for prior := season - 1; prior >= season-depth; prior-- {
		key := cache.NewKey(player, prior)
		ps, err := cache.ReadThrough(ctx, p.Cache, key, forceRefresh, func(ctx context.Context) (cbb.PlayerSeason, error) {
			return p.Primary.GetPlayerSeasonStats(ctx, player, prior)
		})
		if err != nil {
			if cbb.FailureReason(err) != cbb.ReasonNotFound {
				logger.Warn("previous season fetch failed", "player", player, "season", prior, "error", err)
			}
			continue
		}
		out = append(out, profile.PreviousSeason{
			Season:  prior,
			Team:    ps.Team,
			Games:   ps.Games,
			PerGame: stats.PerGameRates(ps),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season > out[j].Season })
	return out
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
