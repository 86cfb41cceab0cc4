package usecase

import (
	"context"
	"fmt"

	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

type LeagueService struct {
	gateways GatewayFactory
	logger   *logging.Logger
}

func NewLeagueService(gateways GatewayFactory, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		gateways: gateways,
		logger:   logger,
	}
}

func (s *LeagueService) ManagerLeagues(ctx context.Context, cookie string, managerID int64) (manager.Leagues, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ManagerLeagues")
	defer span.End()

	gateway := s.gateways.WithSession(cookie)
	leagues, err := gateway.ManagerLeagues(ctx, managerID)
	if err != nil {
		return manager.Leagues{}, fmt.Errorf("get manager leagues: %w", err)
	}
	return leagues, nil
}

func (s *LeagueService) Standings(ctx context.Context, cookie string, leagueID int64, page int) (manager.LeagueStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Standings")
	defer span.End()

	gateway := s.gateways.WithSession(cookie)
	standings, err := gateway.LeagueStandings(ctx, leagueID, page)
	if err != nil {
		return manager.LeagueStandings{}, fmt.Errorf("get league standings: %w", err)
	}
	return standings, nil
}
