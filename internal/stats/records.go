package stats

import (
	"fmt"

	"teamscout/internal/provider/cbb"
)

// WinLoss is a simple win/loss tally.
type WinLoss struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Record renders the tally as "W-L".
func (w WinLoss) Record() string {
	return fmt.Sprintf("%d-%d", w.Wins, w.Losses)
}

func (w *WinLoss) count(won bool) {
	if won {
		w.Wins++
	} else {
		w.Losses++
	}
}

// RecordSplits breaks the season record down by context. OnePossession
// covers final margins of 3 or less, TwoPossession margins of 4 through 6.
type RecordSplits struct {
	Overall       WinLoss `json:"overall"`
	Conference    WinLoss `json:"conference"`
	Home          WinLoss `json:"home"`
	Away          WinLoss `json:"away"`
	Neutral       WinLoss `json:"neutral"`
	OnePossession WinLoss `json:"onePossession"`
	TwoPossession WinLoss `json:"twoPossession"`
}

// Records tallies all splits from a game log.
func Records(games []cbb.Game) RecordSplits {
	var r RecordSplits
	for _, g := range games {
		won := g.Won()
		r.Overall.count(won)
		if g.ConferenceGame {
			r.Conference.count(won)
		}
		switch g.Venue {
		case "home":
			r.Home.count(won)
		case "away":
			r.Away.count(won)
		default:
			r.Neutral.count(won)
		}
		if m := g.Margin(); m <= 3 {
			r.OnePossession.count(won)
		} else if m <= 6 {
			r.TwoPossession.count(won)
		}
	}
	return r
}
