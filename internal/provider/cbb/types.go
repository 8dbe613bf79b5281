package cbb

import "strings"

// NormalizeName lowercases and collapses whitespace in a player name so
// differently-cased spellings resolve to the same identity.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TeamMeta is basic team identity and affiliation data.
type TeamMeta struct {
	Team       string `json:"team"`
	Mascot     string `json:"mascot"`
	Conference string `json:"conference"`
	Arena      string `json:"arena,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Season     int    `json:"season"`
}

// ShotLine is a made/attempted pair for one shooting category.
type ShotLine struct {
	Made      int `json:"made"`
	Attempted int `json:"attempted"`
}

// ReboundLine splits rebounds by end of the floor.
type ReboundLine struct {
	Offensive int `json:"offensive"`
	Defensive int `json:"defensive"`
	Total     int `json:"total"`
}

// PlayerSeason is one player's season totals as reported by the provider.
type PlayerSeason struct {
	Name       string      `json:"name"`
	Team       string      `json:"team"`
	Conference string      `json:"conference"`
	Season     int         `json:"season"`
	Jersey     string      `json:"jersey,omitempty"`
	Position   string      `json:"position,omitempty"`
	Games      int         `json:"games"`
	Starts     int         `json:"starts"`
	Minutes    int         `json:"minutes"`
	Points     int         `json:"points"`
	Assists    int         `json:"assists"`
	Steals     int         `json:"steals"`
	Blocks     int         `json:"blocks"`
	Turnovers  int         `json:"turnovers"`
	Fouls      int         `json:"fouls"`
	FieldGoals ShotLine    `json:"fieldGoals"`
	ThreePoint ShotLine    `json:"threePointFieldGoals"`
	FreeThrows ShotLine    `json:"freeThrows"`
	Rebounds   ReboundLine `json:"rebounds"`
}

// RosterEntry is one roster slot. Season totals for roster players come from
// GetPlayerSeasonStats or the team season-stats call, not from here.
type RosterEntry struct {
	Name     string `json:"name"`
	Jersey   string `json:"jersey"`
	Position string `json:"position"`
	Height   string `json:"height,omitempty"`
	Weight   int    `json:"weight,omitempty"`
	Class    string `json:"year,omitempty"`
	Hometown string `json:"hometown,omitempty"`
}

// Game is one entry in a team's game log.
type Game struct {
	Date           string `json:"date"`
	Opponent       string `json:"opponent"`
	Venue          string `json:"venue"` // home, away, neutral
	ConferenceGame bool   `json:"conferenceGame"`
	TeamScore      int    `json:"teamScore"`
	OpponentScore  int    `json:"opponentScore"`
}

// Won reports whether the team won the game.
func (g Game) Won() bool { return g.TeamScore > g.OpponentScore }

// Margin is the absolute final margin.
func (g Game) Margin() int {
	m := g.TeamScore - g.OpponentScore
	if m < 0 {
		return -m
	}
	return m
}

// PlayerGame is one player's line in a single game.
type PlayerGame struct {
	Date       string      `json:"date"`
	Opponent   string      `json:"opponent"`
	Minutes    int         `json:"minutes"`
	Points     int         `json:"points"`
	Assists    int         `json:"assists"`
	Steals     int         `json:"steals"`
	Blocks     int         `json:"blocks"`
	Turnovers  int         `json:"turnovers"`
	Fouls      int         `json:"fouls"`
	FieldGoals ShotLine    `json:"fieldGoals"`
	ThreePoint ShotLine    `json:"threePointFieldGoals"`
	FreeThrows ShotLine    `json:"freeThrows"`
	Rebounds   ReboundLine `json:"rebounds"`
	Ejected    bool        `json:"ejected,omitempty"`
}

// TeamSide is one side's aggregate counting stats for a season, used for
// four-factors computation (team side and opponent side share the shape).
type TeamSide struct {
	Points     int         `json:"points"`
	FieldGoals ShotLine    `json:"fieldGoals"`
	ThreePoint ShotLine    `json:"threePointFieldGoals"`
	FreeThrows ShotLine    `json:"freeThrows"`
	Rebounds   ReboundLine `json:"rebounds"`
	Turnovers  int         `json:"turnovers"`
	Assists    int         `json:"assists"`
	Steals     int         `json:"steals"`
	Blocks     int         `json:"blocks"`
}

// TeamSeason is a team's season aggregates, both sides of the ball.
type TeamSeason struct {
	Team     string   `json:"team"`
	Season   int      `json:"season"`
	Games    int      `json:"games"`
	Totals   TeamSide `json:"totals"`
	Opponent TeamSide `json:"opponent"`
}

// Ranking is one poll entry for a team.
type Ranking struct {
	Poll   string `json:"poll"`
	Week   int    `json:"week"`
	Rank   int    `json:"rank"`
	Season int    `json:"season"`
}
