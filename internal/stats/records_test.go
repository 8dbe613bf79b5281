package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamscout/internal/provider/cbb"
)

func TestRecords(t *testing.T) {
	t.Parallel()

	games := []cbb.Game{
		{Venue: "home", ConferenceGame: true, TeamScore: 80, OpponentScore: 70},  // W, conf, 10
		{Venue: "home", ConferenceGame: false, TeamScore: 75, OpponentScore: 73}, // W, 1-poss
		{Venue: "away", ConferenceGame: true, TeamScore: 60, OpponentScore: 65},  // L, conf, 2-poss
		{Venue: "away", ConferenceGame: true, TeamScore: 90, OpponentScore: 50},  // W, conf
		{Venue: "neutral", ConferenceGame: false, TeamScore: 68, OpponentScore: 71}, // L, 1-poss
	}

	r := Records(games)

	assert.Equal(t, WinLoss{Wins: 3, Losses: 2}, r.Overall)
	assert.Equal(t, WinLoss{Wins: 2, Losses: 1}, r.Conference)
	assert.Equal(t, WinLoss{Wins: 2, Losses: 0}, r.Home)
	assert.Equal(t, WinLoss{Wins: 1, Losses: 1}, r.Away)
	assert.Equal(t, WinLoss{Wins: 0, Losses: 1}, r.Neutral)
	assert.Equal(t, WinLoss{Wins: 1, Losses: 1}, r.OnePossession)
	assert.Equal(t, WinLoss{Wins: 0, Losses: 1}, r.TwoPossession)

	assert.Equal(t, "3-2", r.Overall.Record())
}

func TestRecordsEmptyLog(t *testing.T) {
	t.Parallel()

	r := Records(nil)
	assert.Equal(t, "0-0", r.Overall.Record())
}
