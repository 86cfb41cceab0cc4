package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

var errStub = errors.New("provider is down")

// stubGateway backs the real services during handler tests. It implements
// both the gateway and the factory: WithSession records the cookie and
// returns the same instance.
type stubGateway struct {
	validSession bool
	players      []player.Player
	teams        []fixture.Team
	gameweek     int
	summary      manager.TeamSummary
	picks        manager.GameweekPicks
	fixtures     map[int][]fixture.Fixture
	leagues      manager.Leagues
	standing     manager.LeagueStandings
	detail       player.Summary

	playersErr  error
	summaryErr  error
	picksErr    error
	standingErr error
	detailErr   error

	lastCookie   string
	lastPage     int
	lastLeagueID int64
}

func (g *stubGateway) WithSession(cookie string) usecase.DataGateway {
	g.lastCookie = cookie
	return g
}

func (g *stubGateway) ValidateSession(context.Context) (bool, error) {
	return g.validSession, nil
}

func (g *stubGateway) AllPlayers(context.Context) ([]player.Player, error) {
	return g.players, g.playersErr
}

func (g *stubGateway) Teams(context.Context) ([]fixture.Team, error) {
	return g.teams, nil
}

func (g *stubGateway) CurrentGameweek(context.Context) (int, error) {
	return g.gameweek, nil
}

func (g *stubGateway) TeamSummary(context.Context, int64) (manager.TeamSummary, error) {
	return g.summary, g.summaryErr
}

func (g *stubGateway) GameweekPicks(context.Context, int64, int) (manager.GameweekPicks, error) {
	return g.picks, g.picksErr
}

func (g *stubGateway) FixturesByEvent(_ context.Context, event int) ([]fixture.Fixture, error) {
	return g.fixtures[event], nil
}

func (g *stubGateway) ManagerLeagues(context.Context, int64) (manager.Leagues, error) {
	return g.leagues, nil
}

func (g *stubGateway) LeagueStandings(_ context.Context, leagueID int64, page int) (manager.LeagueStandings, error) {
	g.lastLeagueID = leagueID
	g.lastPage = page
	return g.standing, g.standingErr
}

func (g *stubGateway) PlayerSummary(context.Context, int64) (player.Summary, error) {
	return g.detail, g.detailErr
}

type stubModel struct {
	reply        string
	err          error
	lastMessages []usecase.ChatMessage
}

func (m *stubModel) Complete(_ context.Context, messages []usecase.ChatMessage) (string, error) {
	m.lastMessages = messages
	return m.reply, m.err
}

func newTestRouter(gateway *stubGateway, model usecase.ChatModel) http.Handler {
	logger := logging.NewNop()
	handler := NewHandler(
		usecase.NewAuthService(gateway, logger),
		usecase.NewTeamService(gateway, logger),
		usecase.NewSuggestionService(gateway, model, logger),
		usecase.NewChatService(gateway, model, logger),
		usecase.NewLeagueService(gateway, logger),
		logger,
	)
	return NewRouter(handler, logger, nil)
}
