package fpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

const bootstrapCacheKey = "bootstrap-static"

// bootstrapSnapshot returns the decoded bootstrap-static payload. The
// snapshot is cached: the analysis path reads it several times per request.
func (c *Client) bootstrapSnapshot(ctx context.Context) (bootstrapEnvelope, error) {
	value, err := c.bootstrap.GetOrLoad(ctx, bootstrapCacheKey, func(ctx context.Context) (any, error) {
		var env bootstrapEnvelope
		if err := c.doJSON(ctx, "/bootstrap-static/", nil, &env); err != nil {
			return nil, fmt.Errorf("fetch bootstrap-static: %w", err)
		}
		return env, nil
	})
	if err != nil {
		return bootstrapEnvelope{}, err
	}

	env, ok := value.(bootstrapEnvelope)
	if !ok {
		return bootstrapEnvelope{}, fmt.Errorf("unexpected bootstrap cache entry type %T", value)
	}
	return env, nil
}

func (c *Client) teamNames(env bootstrapEnvelope) map[int64]string {
	names := make(map[int64]string, len(env.Teams))
	for _, team := range env.Teams {
		names[team.ID] = team.Name
	}
	return names
}

func (c *Client) AllPlayers(ctx context.Context) ([]player.Player, error) {
	env, err := c.bootstrapSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := c.teamNames(env)
	players := make([]player.Player, 0, len(env.Elements))
	for _, item := range env.Elements {
		players = append(players, mapElement(item, names))
	}
	return players, nil
}

func (c *Client) Teams(ctx context.Context) ([]fixture.Team, error) {
	env, err := c.bootstrapSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	teams := make([]fixture.Team, 0, len(env.Teams))
	for _, item := range env.Teams {
		teams = append(teams, mapTeam(item))
	}
	return teams, nil
}

// CurrentGameweek resolves the active event, falling back to the next one
// between gameweeks (e.g. during the winter break).
func (c *Client) CurrentGameweek(ctx context.Context) (int, error) {
	env, err := c.bootstrapSnapshot(ctx)
	if err != nil {
		return 0, err
	}

	for _, event := range env.Events {
		if event.IsCurrent {
			return event.ID, nil
		}
	}
	for _, event := range env.Events {
		if event.IsNext {
			return event.ID, nil
		}
	}
	return 0, fmt.Errorf("no active gameweek in bootstrap events")
}

func (c *Client) TeamSummary(ctx context.Context, managerID int64) (manager.TeamSummary, error) {
	if managerID <= 0 {
		return manager.TeamSummary{}, fmt.Errorf("%w: manager id must be greater than zero", usecase.ErrInvalidInput)
	}

	var env entryEnvelope
	path := fmt.Sprintf("/entry/%d/", managerID)
	if err := c.doJSON(ctx, path, nil, &env); err != nil {
		return manager.TeamSummary{}, fmt.Errorf("fetch entry manager_id=%d: %w", managerID, err)
	}
	return mapEntry(env), nil
}

func (c *Client) GameweekPicks(ctx context.Context, managerID int64, event int) (manager.GameweekPicks, error) {
	if managerID <= 0 {
		return manager.GameweekPicks{}, fmt.Errorf("%w: manager id must be greater than zero", usecase.ErrInvalidInput)
	}
	if event < 1 || event > maxGameweek {
		return manager.GameweekPicks{}, fmt.Errorf("%w: gameweek must be within 1..%d", usecase.ErrInvalidInput, maxGameweek)
	}

	var env picksEnvelope
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", managerID, event)
	if err := c.doJSON(ctx, path, nil, &env); err != nil {
		return manager.GameweekPicks{}, fmt.Errorf("fetch picks manager_id=%d event=%d: %w", managerID, event, err)
	}

	picks := mapPicks(env)
	if picks.Event == 0 {
		picks.Event = event
	}
	return picks, nil
}

// FixturesByEvent returns one gameweek's fixtures sorted by kickoff time,
// nil kickoffs last, id as tiebreaker. The provider's own ordering is not
// trusted.
func (c *Client) FixturesByEvent(ctx context.Context, event int) ([]fixture.Fixture, error) {
	if event < 1 || event > maxGameweek {
		return nil, fmt.Errorf("%w: gameweek must be within 1..%d", usecase.ErrInvalidInput, maxGameweek)
	}

	env, err := c.bootstrapSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := c.teamNames(env)

	query := url.Values{}
	query.Set("event", strconv.Itoa(event))

	var items []fixtureItem
	if err := c.doJSON(ctx, "/fixtures/", query, &items); err != nil {
		return nil, fmt.Errorf("fetch fixtures event=%d: %w", event, err)
	}

	fixtures := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		fixtures = append(fixtures, mapFixture(item, names))
	}
	fixture.SortChronological(fixtures)
	return fixtures, nil
}

// ValidateSession probes the authenticated me/ endpoint. A rejected or
// anonymous session reports false without error; transport failures
// propagate.
func (c *Client) ValidateSession(ctx context.Context) (bool, error) {
	if c.cookie == "" {
		return false, nil
	}

	var env meEnvelope
	if err := c.doJSON(ctx, "/me/", nil, &env); err != nil {
		if crerr.Is(err, usecase.ErrUnauthorized) {
			return false, nil
		}
		return false, fmt.Errorf("probe session: %w", err)
	}
	return env.Player != nil, nil
}

func (c *Client) ManagerLeagues(ctx context.Context, managerID int64) (manager.Leagues, error) {
	if managerID <= 0 {
		return manager.Leagues{}, fmt.Errorf("%w: manager id must be greater than zero", usecase.ErrInvalidInput)
	}

	var env entryEnvelope
	path := fmt.Sprintf("/entry/%d/", managerID)
	if err := c.doJSON(ctx, path, nil, &env); err != nil {
		return manager.Leagues{}, fmt.Errorf("fetch entry leagues manager_id=%d: %w", managerID, err)
	}

	return manager.Leagues{
		Classic: mapLeagueMemberships(env.Leagues.Classic),
		H2H:     mapLeagueMemberships(env.Leagues.H2H),
	}, nil
}

func (c *Client) LeagueStandings(ctx context.Context, leagueID int64, page int) (manager.LeagueStandings, error) {
	if leagueID <= 0 {
		return manager.LeagueStandings{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page_standings", strconv.Itoa(page))
	query.Set("page_new_entries", "1")

	var env standingsEnvelope
	path := fmt.Sprintf("/leagues-classic/%d/standings/", leagueID)
	if err := c.doJSON(ctx, path, query, &env); err != nil {
		return manager.LeagueStandings{}, fmt.Errorf("fetch standings league_id=%d page=%d: %w", leagueID, page, err)
	}

	standings := mapStandings(env)
	if standings.Page == 0 {
		standings.Page = page
	}
	return standings, nil
}

func (c *Client) PlayerSummary(ctx context.Context, playerID int64) (player.Summary, error) {
	if playerID <= 0 {
		return player.Summary{}, fmt.Errorf("%w: player id must be greater than zero", usecase.ErrInvalidInput)
	}

	var env elementSummaryEnvelope
	path := fmt.Sprintf("/element-summary/%d/", playerID)
	if err := c.doJSON(ctx, path, nil, &env); err != nil {
		return player.Summary{}, fmt.Errorf("fetch element summary player_id=%d: %w", playerID, err)
	}
	return mapElementSummary(env), nil
}
