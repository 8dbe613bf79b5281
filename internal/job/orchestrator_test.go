package job

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"teamscout/internal/cache"
	"teamscout/internal/enrich"
	"teamscout/internal/profile"
	"teamscout/internal/provider/cbb"
)

// --------------------------------------------------------------------------
// Fakes
// --------------------------------------------------------------------------

// fakePrimary serves canned provider data and counts calls.
type fakePrimary struct {
	calls             atomic.Int64
	playerSeasonCalls atomic.Int32
	fail              error // when set, every method fails
}

func (f *fakePrimary) bump() { f.calls.Add(1) }

func (f *fakePrimary) Calls() int64 { return f.calls.Load() }

func (f *fakePrimary) GetTeamMeta(_ context.Context, team string, season int) (cbb.TeamMeta, error) {
	f.bump()
	if f.fail != nil {
		return cbb.TeamMeta{}, f.fail
	}
	return cbb.TeamMeta{Team: team, Mascot: "Wolves", Conference: "Big West", Season: season}, nil
}

func (f *fakePrimary) GetRoster(_ context.Context, _ string, _ int) ([]cbb.RosterEntry, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return []cbb.RosterEntry{
		{Name: "Star Guard", Jersey: "1", Position: "G"},
		{Name: "Big Center", Jersey: "44", Position: "C"},
	}, nil
}

func (f *fakePrimary) GetGameLog(_ context.Context, _ string, _ int) ([]cbb.Game, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return []cbb.Game{
		{Venue: "home", ConferenceGame: true, TeamScore: 80, OpponentScore: 70},
		{Venue: "away", ConferenceGame: false, TeamScore: 66, OpponentScore: 68},
	}, nil
}

func (f *fakePrimary) GetTeamSeasonStats(_ context.Context, team string, season int) (cbb.TeamSeason, error) {
	f.bump()
	if f.fail != nil {
		return cbb.TeamSeason{}, f.fail
	}
	return cbb.TeamSeason{Team: team, Season: season, Games: 2}, nil
}

func (f *fakePrimary) GetRankings(_ context.Context, _ string, season int) ([]cbb.Ranking, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return []cbb.Ranking{{Poll: "AP", Week: 10, Rank: 12, Season: season}}, nil
}

func cannedPlayers(team string, season int) []cbb.PlayerSeason {
	return []cbb.PlayerSeason{
		{Name: "Star Guard", Team: team, Conference: "Big West", Season: season, Games: 2, Minutes: 70, Points: 44, Assists: 10, Turnovers: 4,
			FieldGoals: cbb.ShotLine{Made: 16, Attempted: 30}},
		{Name: "Big Center", Team: team, Conference: "Big West", Season: season, Games: 2, Minutes: 50, Points: 20,
			Rebounds: cbb.ReboundLine{Offensive: 6, Defensive: 12, Total: 18}},
	}
}

func (f *fakePrimary) GetTeamPlayerStats(_ context.Context, team string, season int) ([]cbb.PlayerSeason, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return cannedPlayers(team, season), nil
}

func (f *fakePrimary) GetConferencePlayers(_ context.Context, _ string, season int) ([]cbb.PlayerSeason, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return cannedPlayers("Westview", season), nil
}

func (f *fakePrimary) GetPlayerGameStats(_ context.Context, _ string, _ int) (map[string][]cbb.PlayerGame, error) {
	f.bump()
	if f.fail != nil {
		return nil, f.fail
	}
	return map[string][]cbb.PlayerGame{
		"star guard": {
			{Points: 24, Fouls: 2},
			{Points: 20, Fouls: 5},
		},
	}, nil
}

func (f *fakePrimary) GetPlayerSeasonStats(_ context.Context, player string, season int) (cbb.PlayerSeason, error) {
	f.bump()
	f.playerSeasonCalls.Add(1)
	if f.fail != nil {
		return cbb.PlayerSeason{}, f.fail
	}
	if player == "Star Guard" {
		return cbb.PlayerSeason{Name: player, Season: season, Games: 28, Points: 392, Minutes: 700}, nil
	}
	return cbb.PlayerSeason{}, &cbb.SourceError{Endpoint: "/stats/player/season", Reason: cbb.ReasonNotFound}
}

// fakeAdapter returns a fixed result and counts invocations. With block
// set, Fetch parks until cancellation.
type fakeAdapter struct {
	name   string
	result enrich.Result
	calls  atomic.Int32
	block  bool
	parked chan struct{} // closed once a blocking fetch has started
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context, _ string, _ int) enrich.Result {
	f.calls.Add(1)
	if f.block {
		if f.parked != nil {
			close(f.parked)
		}
		<-ctx.Done()
		return enrich.Failed("interrupted")
	}
	return f.result
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(primary PrimarySource, adapters ...enrich.Adapter) *Pipeline {
	return &Pipeline{
		Primary:         primary,
		Cache:           cache.NewMemoryStore(),
		Adapters:        adapters,
		AdapterTimeout:  time.Second,
		PrevSeasonDepth: 1,
		Logger:          quiet(),
	}
}

func newTestOrchestrator(t *testing.T, p *Pipeline) (*Orchestrator, *MemoryResultStore) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	results := NewMemoryResultStore()
	return NewOrchestrator(ctx, p, NewMemoryStore(), results, quiet()), results
}

func waitTerminal(t *testing.T, orch *Orchestrator, id string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := orch.Get(context.Background(), id)
		assert.NoError(t, err)
		if j.Status.Terminal() {
			return j
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return Job{}
}

func statusCounts(statuses []profile.SourceStatus) map[string]int {
	counts := make(map[string]int)
	for _, s := range statuses {
		counts[s.Status]++
	}
	return counts
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestJobCompletesWithPartialEnrichmentFailure(t *testing.T) {
	t.Parallel()

	kenpom := &fakeAdapter{name: profile.SourceKenPom,
		result: enrich.Success("ok", &profile.AdvancedMetrics{TeamName: "Westview", Source: "kenpom"})}
	wiki := &fakeAdapter{name: profile.SourceWikipedia, result: enrich.Failed("status 500")}
	coach := &fakeAdapter{name: profile.SourceCoachArchive, result: enrich.Failed("status 503")}
	net := &fakeAdapter{name: profile.SourceNetRating,
		result: enrich.Success("ok", &profile.NetRating{Rating: 14, Source: "NCAA NET"})}

	orch, results := newTestOrchestrator(t, newTestPipeline(&fakePrimary{}, kenpom, wiki, coach, net))

	id, err := orch.Submit(context.Background(), "Westview", 2026, false)
	assert.NoError(t, err)

	j := waitTerminal(t, orch, id)
	assert.Equal(t, StatusCompleted, j.Status)
	assert.Equal(t, 100, j.Progress)
	assert.Equal(t, ResultRef("Westview", 2026), j.ResultRef)
	assert.Empty(t, j.Error)

	// Primary + 2 successes, 2 failures, nothing skipped.
	counts := statusCounts(j.SourceStatuses)
	assert.Equal(t, 3, counts[profile.StatusSuccess])
	assert.Equal(t, 2, counts[profile.StatusFailed])
	assert.Zero(t, counts[profile.StatusSkipped])

	// Statuses render in the fixed declared order.
	names := make([]string, len(j.SourceStatuses))
	for i, s := range j.SourceStatuses {
		names[i] = s.Name
	}
	assert.Equal(t, profile.SourceOrder, names)

	// Exactly the failed blocks are absent.
	doc, err := results.Get(context.Background(), "Westview", 2026)
	assert.NoError(t, err)
	assert.NotNil(t, doc.AdvancedMetrics)
	assert.NotNil(t, doc.NetRating)
	assert.Nil(t, doc.Encyclopedia)
	assert.Nil(t, doc.CoachingHistory)
}

func TestPrimaryFailureFailsJobWithoutAdapterCalls(t *testing.T) {
	t.Parallel()

	adapters := []*fakeAdapter{
		{name: profile.SourceKenPom, result: enrich.Success("ok", nil)},
		{name: profile.SourceWikipedia, result: enrich.Success("ok", nil)},
		{name: profile.SourceCoachArchive, result: enrich.Success("ok", nil)},
		{name: profile.SourceNetRating, result: enrich.Success("ok", nil)},
	}
	primary := &fakePrimary{fail: &cbb.SourceError{Endpoint: "/teams", Reason: cbb.ReasonUnavailable}}

	p := newTestPipeline(primary, adapters[0], adapters[1], adapters[2], adapters[3])
	orch, results := newTestOrchestrator(t, p)

	id, err := orch.Submit(context.Background(), "Westview", 2026, false)
	assert.NoError(t, err)

	j := waitTerminal(t, orch, id)
	assert.Equal(t, StatusFailed, j.Status)
	assert.NotEmpty(t, j.Error)
	assert.Empty(t, j.ResultRef)

	for _, a := range adapters {
		assert.Zero(t, a.calls.Load(), "adapter %s must never run after a primary failure", a.name)
	}

	// Primary is reported failed with its reason; no profile exists.
	assert.Len(t, j.SourceStatuses, 1)
	assert.Equal(t, profile.SourcePrimary, j.SourceStatuses[0].Name)
	assert.Equal(t, profile.StatusFailed, j.SourceStatuses[0].Status)
	assert.Equal(t, string(cbb.ReasonUnavailable), j.SourceStatuses[0].Message)

	_, err = results.Get(context.Background(), "Westview", 2026)
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestCancelMidEnrichment(t *testing.T) {
	t.Parallel()

	blocking := &fakeAdapter{name: profile.SourceKenPom, block: true, parked: make(chan struct{})}
	orch, results := newTestOrchestrator(t, newTestPipeline(&fakePrimary{}, blocking))

	id, err := orch.Submit(context.Background(), "Westview", 2026, false)
	assert.NoError(t, err)

	// Wait until the worker is parked inside the enrichment phase.
	select {
	case <-blocking.parked:
	case <-time.After(5 * time.Second):
		t.Fatal("adapter never started")
	}

	assert.NoError(t, orch.Cancel(context.Background(), id))

	j := waitTerminal(t, orch, id)
	assert.Equal(t, StatusCancelled, j.Status)

	// Assembly never ran: progress froze during enrichment and no profile
	// was stored.
	assert.GreaterOrEqual(t, j.Progress, 30)
	assert.Less(t, j.Progress, 95)
	_, err = results.Get(context.Background(), "Westview", 2026)
	assert.ErrorIs(t, err, ErrNoProfile)

	// Cancelling a terminal job is a no-op.
	assert.NoError(t, orch.Cancel(context.Background(), id))
	again, err := orch.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, again.Status)
}

func TestMonotonicProgressAndStatusSequence(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, newTestPipeline(&fakePrimary{}))

	id, err := orch.Submit(context.Background(), "Westview", 2026, false)
	assert.NoError(t, err)

	var mu sync.Mutex
	var snapshots []Job
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			j, err := orch.Get(context.Background(), id)
			if err != nil {
				return
			}
			mu.Lock()
			snapshots = append(snapshots, j)
			mu.Unlock()
			if j.Status.Terminal() {
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, snapshots)

	order := map[Status]int{StatusQueued: 0, StatusRunning: 1, StatusCompleted: 2, StatusFailed: 2, StatusCancelled: 2}
	for i := 1; i < len(snapshots); i++ {
		assert.GreaterOrEqual(t, snapshots[i].Progress, snapshots[i-1].Progress,
			"progress regressed at snapshot %d", i)
		assert.GreaterOrEqual(t, order[snapshots[i].Status], order[snapshots[i-1].Status],
			"status went backwards at snapshot %d", i)
	}
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, StatusCompleted, last.Status)
	assert.Equal(t, 100, last.Progress)
}

func TestPipelineCacheReuse(t *testing.T) {
	t.Parallel()

	primary := &fakePrimary{}
	p := newTestPipeline(primary)

	_, err := p.Run(context.Background(), "Westview", 2026, false, Observer{})
	assert.NoError(t, err)
	firstRun := primary.playerSeasonCalls.Load()
	assert.Equal(t, int32(2), firstRun, "one historical lookup per rostered player")

	// Second run: Star Guard's prior season comes from cache; the not-found
	// player is refetched because misses are not cached.
	_, err = p.Run(context.Background(), "Westview", 2026, false, Observer{})
	assert.NoError(t, err)
	assert.Equal(t, firstRun+1, primary.playerSeasonCalls.Load())
}

func TestPipelineDerivedPlayerStats(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakePrimary{})
	doc, err := p.Run(context.Background(), "Westview", 2026, false, Observer{})
	assert.NoError(t, err)

	// Roster sorted by minutes per game: Star Guard (35.0) first.
	assert.Equal(t, "Star Guard", doc.Roster[0].Name)
	star := doc.Roster[0]
	assert.Equal(t, 22.0, star.PerGame.Points)
	assert.Equal(t, 2.5, star.AssistToTurnoverRatio)
	assert.Equal(t, 1, star.FoulOuts)
	assert.Len(t, star.GameByGame, 2)

	// Previous season summary came through the cache path.
	if assert.Len(t, star.PreviousSeasons, 1) {
		assert.Equal(t, 2025, star.PreviousSeasons[0].Season)
		assert.Equal(t, 14.0, star.PreviousSeasons[0].PerGame.Points)
	}

	// Conference rankings rank the two team players against each other.
	assert.Equal(t, 1, star.ConferenceRankings["pointsPerGame"].Rank)
	assert.Equal(t, 2, star.ConferenceRankings["pointsPerGame"].TotalPlayers)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, newTestPipeline(&fakePrimary{}))

	_, err := orch.Submit(context.Background(), "", 2026, false)
	assert.Error(t, err)
	_, err = orch.Submit(context.Background(), "Westview", 0, false)
	assert.Error(t, err)
}

func TestGetUnknownJob(t *testing.T) {
	t.Parallel()

	orch, _ := newTestOrchestrator(t, newTestPipeline(&fakePrimary{}))
	_, err := orch.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, orch.Cancel(context.Background(), "no-such-id"), ErrNotFound)
}

func TestRepeatRunsAreIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakePrimary{})

	first, err := p.Run(context.Background(), "Westview", 2026, false, Observer{})
	assert.NoError(t, err)
	second, err := p.Run(context.Background(), "Westview", 2026, false, Observer{})
	assert.NoError(t, err)

	// Identical source data yields an identical document apart from the
	// generation timestamp and run accounting.
	second.GeneratedAt = first.GeneratedAt
	second.Metadata = first.Metadata
	assert.Equal(t, first, second)
}
