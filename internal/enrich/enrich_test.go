package enrich

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"teamscout/internal/profile"
)

// stubTransport serves one fixed response and counts hits.
type stubTransport struct {
	status int
	body   string
	hits   atomic.Int32
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.hits.Add(1)
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func stubClient(status int, body string) (*http.Client, *stubTransport) {
	st := &stubTransport{status: status, body: body}
	return &http.Client{Transport: st}, st
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKenPomSkippedWithoutKey(t *testing.T) {
	t.Parallel()

	client, st := stubClient(http.StatusOK, `{}`)
	a := NewKenPom("http://kenpom.test", "", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSkipped, res.Status)
	assert.Equal(t, "not configured", res.Message)
	assert.Nil(t, res.Data)
	assert.Zero(t, st.hits.Load(), "skipped adapters must not touch the network")
}

func TestKenPomSuccess(t *testing.T) {
	t.Parallel()

	client, st := stubClient(http.StatusOK,
		`{"team":"Westview","adjT":68.2,"adjO":118.4,"adjD":95.1,"adjEM":23.3,"sos":10.9}`)
	a := NewKenPom("http://kenpom.test", "secret", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSuccess, res.Status)
	assert.Equal(t, int32(1), st.hits.Load())

	block, ok := res.Data.(*profile.AdvancedMetrics)
	assert.True(t, ok)
	assert.Equal(t, "Westview", block.TeamName)
	assert.Equal(t, 118.4, block.AdjustedOffensiveEfficiency)
	assert.Equal(t, 23.3, block.NetRating)
}

func TestKenPomServerError(t *testing.T) {
	t.Parallel()

	client, _ := stubClient(http.StatusInternalServerError, `boom`)
	a := NewKenPom("http://kenpom.test", "secret", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusFailed, res.Status)
	assert.NotEmpty(t, res.Message)
	assert.Nil(t, res.Data)
}

func TestWikipediaSkippedWithoutBaseURL(t *testing.T) {
	t.Parallel()

	client, st := stubClient(http.StatusOK, `{}`)
	a := NewWikipedia("", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSkipped, res.Status)
	assert.Zero(t, st.hits.Load())
}

func TestWikipediaSuccess(t *testing.T) {
	t.Parallel()

	client, _ := stubClient(http.StatusOK,
		`{"university":"Westview University","mascot":"Wolves","headCoach":"Pat Example","arena":"Wolf Den","capacity":12800,"ncaaChampionships":2,"tournamentAppearances":18,"apRanking":11}`)
	a := NewWikipedia("http://wiki.test", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSuccess, res.Status)

	block, ok := res.Data.(*profile.EncyclopediaMetadata)
	assert.True(t, ok)
	assert.Equal(t, "Westview University", block.UniversityName)
	assert.Equal(t, 2, block.Championships)
	if assert.NotNil(t, block.APRanking) {
		assert.Equal(t, 11, *block.APRanking)
	}
}

func TestCoachArchiveSummaries(t *testing.T) {
	t.Parallel()

	client, _ := stubClient(http.StatusOK, `[
		{"season":2024,"coach":"Pat Example","overallWins":20,"overallLosses":12,"conferenceWins":11,"conferenceLosses":7},
		{"season":2025,"coach":"Pat Example","overallWins":26,"overallLosses":8,"conferenceWins":15,"conferenceLosses":3},
		{"season":2023,"coach":"Old Coach","overallWins":10,"overallLosses":22,"conferenceWins":4,"conferenceLosses":14}
	]`)
	a := NewCoachArchive("http://archive.test", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSuccess, res.Status)

	block, ok := res.Data.(*profile.CoachingHistory)
	assert.True(t, ok)
	assert.Len(t, block.Seasons, 3)
	// Newest season first.
	assert.Equal(t, 2025, block.Seasons[0].Season)
	// (20 + 26 + 10) / 3 = 18.7
	assert.Equal(t, 18.7, block.AverageOverallWins)
	// (11 + 15 + 4) / 3 = 10.0
	assert.Equal(t, 10.0, block.AverageConferenceWins)
	assert.Equal(t, "Pat Example", block.WinningestCoach)
}

func TestNetRatingQuadrants(t *testing.T) {
	t.Parallel()

	client, _ := stubClient(http.StatusOK,
		`{"rating":14,"previousRating":21,"quadrant1":{"wins":4,"losses":3},"quadrant4":{"wins":9,"losses":0}}`)
	a := NewNetRating("http://net.test", client, discard())

	res := a.Fetch(context.Background(), "Westview", 2026)
	assert.Equal(t, profile.StatusSuccess, res.Status)

	block, ok := res.Data.(*profile.NetRating)
	assert.True(t, ok)
	assert.Equal(t, 14, block.Rating)
	if assert.NotNil(t, block.Quadrant1) {
		assert.Equal(t, "4-3", block.Quadrant1.Record)
	}
	assert.Nil(t, block.Quadrant2)
	if assert.NotNil(t, block.Quadrant4) {
		assert.Equal(t, 9, block.Quadrant4.Wins)
	}
}

// panicAdapter blows up to exercise the Invoke boundary.
type panicAdapter struct{}

func (panicAdapter) Name() string { return "panicky" }
func (panicAdapter) Fetch(context.Context, string, int) Result {
	panic("adapter bug")
}

func TestInvokeConvertsPanicToFailure(t *testing.T) {
	t.Parallel()

	res := Invoke(context.Background(), panicAdapter{}, "Westview", 2026)
	assert.Equal(t, profile.StatusFailed, res.Status)
	assert.Contains(t, res.Message, "adapter bug")
}
