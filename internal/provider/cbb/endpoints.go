package cbb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetTeamMeta returns identity and affiliation data for one team.
func (c *Client) GetTeamMeta(ctx context.Context, team string, season int) (TeamMeta, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var metas []TeamMeta
	if err := c.getJSON(ctx, "/teams", params, &metas); err != nil {
		return TeamMeta{}, err
	}
	if len(metas) == 0 {
		return TeamMeta{}, &SourceError{Endpoint: "/teams", Reason: ReasonNotFound,
			Err: fmt.Errorf("no team matches %q in %d", team, season)}
	}
	meta := metas[0]
	if meta.Season == 0 {
		meta.Season = season
	}
	return meta, nil
}

// GetTeams lists teams for a season, optionally filtered by conference.
func (c *Client) GetTeams(ctx context.Context, conference string, season int) ([]TeamMeta, error) {
	params := url.Values{"season": {strconv.Itoa(season)}}
	if conference != "" {
		params.Set("conference", conference)
	}
	var metas []TeamMeta
	if err := c.getJSON(ctx, "/teams", params, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

// GetRoster returns the roster for one team season.
func (c *Client) GetRoster(ctx context.Context, team string, season int) ([]RosterEntry, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var roster []RosterEntry
	if err := c.getJSON(ctx, "/teams/roster", params, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// GetGameLog returns the team's game-by-game results for a season.
func (c *Client) GetGameLog(ctx context.Context, team string, season int) ([]Game, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var games []Game
	if err := c.getJSON(ctx, "/games/teams", params, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetTeamSeasonStats returns the team's aggregate season stats, both sides.
func (c *Client) GetTeamSeasonStats(ctx context.Context, team string, season int) (TeamSeason, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var seasons []TeamSeason
	if err := c.getJSON(ctx, "/stats/team/season", params, &seasons); err != nil {
		return TeamSeason{}, err
	}
	if len(seasons) == 0 {
		return TeamSeason{}, &SourceError{Endpoint: "/stats/team/season", Reason: ReasonNotFound,
			Err: fmt.Errorf("no season stats for %q in %d", team, season)}
	}
	return seasons[0], nil
}

// GetRankings returns poll rankings for one team season.
func (c *Client) GetRankings(ctx context.Context, team string, season int) ([]Ranking, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var ranks []Ranking
	if err := c.getJSON(ctx, "/rankings", params, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

// GetTeamPlayerStats returns season totals for every player on one team.
func (c *Client) GetTeamPlayerStats(ctx context.Context, team string, season int) ([]PlayerSeason, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var players []PlayerSeason
	if err := c.getJSON(ctx, "/stats/player/season", params, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetConferencePlayers returns season totals for every player in a
// conference, used for conference-relative rankings.
func (c *Client) GetConferencePlayers(ctx context.Context, conference string, season int) ([]PlayerSeason, error) {
	params := url.Values{"conference": {conference}, "season": {strconv.Itoa(season)}}
	var players []PlayerSeason
	if err := c.getJSON(ctx, "/stats/player/season", params, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetPlayerSeasonStats returns one player's totals for a single season.
// Historical seasons are immutable, so callers should consult the cache
// before reaching here.
func (c *Client) GetPlayerSeasonStats(ctx context.Context, player string, season int) (PlayerSeason, error) {
	params := url.Values{"player": {player}, "season": {strconv.Itoa(season)}}
	var seasons []PlayerSeason
	if err := c.getJSON(ctx, "/stats/player/season", params, &seasons); err != nil {
		return PlayerSeason{}, err
	}
	if len(seasons) == 0 {
		return PlayerSeason{}, &SourceError{Endpoint: "/stats/player/season", Reason: ReasonNotFound,
			Err: fmt.Errorf("no stats for %q in %d", player, season)}
	}
	return seasons[0], nil
}

// GetPlayerGameStats returns one player's per-game lines for a team season.
func (c *Client) GetPlayerGameStats(ctx context.Context, team string, season int) (map[string][]PlayerGame, error) {
	params := url.Values{"team": {team}, "season": {strconv.Itoa(season)}}
	var lines []struct {
		Player string `json:"player"`
		PlayerGame
	}
	if err := c.getJSON(ctx, "/stats/player/games", params, &lines); err != nil {
		return nil, err
	}
	byPlayer := make(map[string][]PlayerGame, len(lines))
	for _, l := range lines {
		byPlayer[l.Player] = append(byPlayer[l.Player], l.PlayerGame)
	}
	return byPlayer, nil
}
