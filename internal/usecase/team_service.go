package usecase

import (
	"context"
	"fmt"

	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

// PickDetail joins a squad slot with the full player record.
type PickDetail struct {
	Pick   manager.TeamPick
	Player player.Player
}

// TeamOverview is the team page payload: entry summary plus the current
// gameweek squad.
type TeamOverview struct {
	Summary  manager.TeamSummary
	Gameweek int
	Picks    []PickDetail
}

// PlayerDetail is the per-player drilldown.
type PlayerDetail struct {
	Player  player.Player
	Summary player.Summary
}

type TeamService struct {
	gateways GatewayFactory
	logger   *logging.Logger
}

func NewTeamService(gateways GatewayFactory, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		gateways: gateways,
		logger:   logger,
	}
}

func (s *TeamService) Overview(ctx context.Context, cookie string, managerID int64) (TeamOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Overview")
	defer span.End()

	if managerID <= 0 {
		return TeamOverview{}, fmt.Errorf("%w: manager id must be greater than zero", ErrInvalidInput)
	}

	gateway := s.gateways.WithSession(cookie)

	summary, err := gateway.TeamSummary(ctx, managerID)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("get team summary: %w", err)
	}

	gameweek, err := gateway.CurrentGameweek(ctx)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("get current gameweek: %w", err)
	}

	picks, err := gateway.GameweekPicks(ctx, managerID, gameweek)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("get gameweek picks: %w", err)
	}

	allPlayers, err := gateway.AllPlayers(ctx)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("get all players: %w", err)
	}

	playersByID := make(map[int64]player.Player, len(allPlayers))
	for _, p := range allPlayers {
		playersByID[p.ID] = p
	}

	details := make([]PickDetail, 0, len(picks.Picks))
	for _, pick := range picks.Picks {
		p, ok := playersByID[pick.Element]
		if !ok {
			s.logger.WarnContext(ctx, "pick references unknown player", "manager_id", managerID, "element", pick.Element)
			continue
		}
		details = append(details, PickDetail{Pick: pick, Player: p})
	}

	// Picks carry the fresher money figures for the active gameweek.
	if picks.History.Value > 0 {
		summary.Value = picks.History.Value
	}
	if picks.History.Bank > 0 {
		summary.Bank = picks.History.Bank
	}
	summary.EventTransfers = picks.History.EventTransfers
	summary.EventTransfersCost = picks.History.EventTransfersCost

	return TeamOverview{
		Summary:  summary,
		Gameweek: gameweek,
		Picks:    details,
	}, nil
}

func (s *TeamService) Picks(ctx context.Context, cookie string, managerID int64, event int) (manager.GameweekPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Picks")
	defer span.End()

	gateway := s.gateways.WithSession(cookie)
	picks, err := gateway.GameweekPicks(ctx, managerID, event)
	if err != nil {
		return manager.GameweekPicks{}, fmt.Errorf("get gameweek picks: %w", err)
	}
	return picks, nil
}

func (s *TeamService) PlayerDetail(ctx context.Context, playerID int64) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.PlayerDetail")
	defer span.End()

	if playerID <= 0 {
		return PlayerDetail{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	gateway := s.gateways.WithSession("")

	allPlayers, err := gateway.AllPlayers(ctx)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get all players: %w", err)
	}

	var found *player.Player
	for i := range allPlayers {
		if allPlayers[i].ID == playerID {
			found = &allPlayers[i]
			break
		}
	}
	if found == nil {
		return PlayerDetail{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	summary, err := gateway.PlayerSummary(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player summary: %w", err)
	}

	return PlayerDetail{
		Player:  *found,
		Summary: summary,
	}, nil
}
