package usecase

import (
	"context"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
)

// DataGateway is the read-side port to the fantasy data provider.
type DataGateway interface {
	ValidateSession(ctx context.Context) (bool, error)
	AllPlayers(ctx context.Context) ([]player.Player, error)
	Teams(ctx context.Context) ([]fixture.Team, error)
	CurrentGameweek(ctx context.Context) (int, error)
	TeamSummary(ctx context.Context, managerID int64) (manager.TeamSummary, error)
	GameweekPicks(ctx context.Context, managerID int64, event int) (manager.GameweekPicks, error)
	FixturesByEvent(ctx context.Context, event int) ([]fixture.Fixture, error)
	ManagerLeagues(ctx context.Context, managerID int64) (manager.Leagues, error)
	LeagueStandings(ctx context.Context, leagueID int64, page int) (manager.LeagueStandings, error)
	PlayerSummary(ctx context.Context, playerID int64) (player.Summary, error)
}

// GatewayFactory derives a session-scoped gateway from a request credential.
// An empty cookie yields a gateway limited to public endpoints.
type GatewayFactory interface {
	WithSession(cookie string) DataGateway
}

// Chat roles for ChatModel messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type ChatMessage struct {
	Role    string
	Content string
}

// ChatModel is the port to the language model provider.
type ChatModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
