package usecase

import (
	"context"
	"errors"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
)

// stubGateway satisfies DataGateway and GatewayFactory so services can be
// exercised without the real provider.
type stubGateway struct {
	validSession bool

	players  []player.Player
	teams    []fixture.Team
	gameweek int
	summary  manager.TeamSummary
	picks    manager.GameweekPicks
	fixtures map[int][]fixture.Fixture
	leagues  manager.Leagues
	standing manager.LeagueStandings
	detail   player.Summary

	validateErr error
	playersErr  error
	teamsErr    error
	gameweekErr error
	summaryErr  error
	picksErr    error
	fixturesErr error
	leaguesErr  error
	standingErr error
	detailErr   error

	calls []string
}

func (g *stubGateway) WithSession(string) DataGateway { return g }

func (g *stubGateway) ValidateSession(context.Context) (bool, error) {
	g.calls = append(g.calls, "ValidateSession")
	return g.validSession, g.validateErr
}

func (g *stubGateway) AllPlayers(context.Context) ([]player.Player, error) {
	g.calls = append(g.calls, "AllPlayers")
	return g.players, g.playersErr
}

func (g *stubGateway) Teams(context.Context) ([]fixture.Team, error) {
	g.calls = append(g.calls, "Teams")
	return g.teams, g.teamsErr
}

func (g *stubGateway) CurrentGameweek(context.Context) (int, error) {
	g.calls = append(g.calls, "CurrentGameweek")
	return g.gameweek, g.gameweekErr
}

func (g *stubGateway) TeamSummary(_ context.Context, _ int64) (manager.TeamSummary, error) {
	g.calls = append(g.calls, "TeamSummary")
	return g.summary, g.summaryErr
}

func (g *stubGateway) GameweekPicks(_ context.Context, _ int64, _ int) (manager.GameweekPicks, error) {
	g.calls = append(g.calls, "GameweekPicks")
	return g.picks, g.picksErr
}

func (g *stubGateway) FixturesByEvent(_ context.Context, event int) ([]fixture.Fixture, error) {
	g.calls = append(g.calls, "FixturesByEvent")
	if g.fixturesErr != nil {
		return nil, g.fixturesErr
	}
	return g.fixtures[event], nil
}

func (g *stubGateway) ManagerLeagues(_ context.Context, _ int64) (manager.Leagues, error) {
	g.calls = append(g.calls, "ManagerLeagues")
	return g.leagues, g.leaguesErr
}

func (g *stubGateway) LeagueStandings(_ context.Context, _ int64, _ int) (manager.LeagueStandings, error) {
	g.calls = append(g.calls, "LeagueStandings")
	return g.standing, g.standingErr
}

func (g *stubGateway) PlayerSummary(_ context.Context, _ int64) (player.Summary, error) {
	g.calls = append(g.calls, "PlayerSummary")
	return g.detail, g.detailErr
}

func (g *stubGateway) calledTimes(name string) int {
	n := 0
	for _, call := range g.calls {
		if call == name {
			n++
		}
	}
	return n
}

// stubModel returns a canned reply or error for every completion.
type stubModel struct {
	reply string
	err   error

	lastMessages []ChatMessage
	completions  int
}

func (m *stubModel) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	m.completions++
	m.lastMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

var errStubProvider = errors.New("provider is down")
