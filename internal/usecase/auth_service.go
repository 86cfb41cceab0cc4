package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

// AuthService validates provider session cookies by probing the
// authenticated account endpoint.
type AuthService struct {
	gateways GatewayFactory
	logger   *logging.Logger
}

func NewAuthService(gateways GatewayFactory, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		gateways: gateways,
		logger:   logger,
	}
}

// Login verifies the cookie and returns the manager's entry summary.
func (s *AuthService) Login(ctx context.Context, cookie string, managerID int64) (manager.TeamSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	if strings.TrimSpace(cookie) == "" {
		return manager.TeamSummary{}, fmt.Errorf("%w: session cookie is required", ErrUnauthorized)
	}
	if managerID <= 0 {
		return manager.TeamSummary{}, fmt.Errorf("%w: manager id must be greater than zero", ErrInvalidInput)
	}

	gateway := s.gateways.WithSession(cookie)

	valid, err := gateway.ValidateSession(ctx)
	if err != nil {
		return manager.TeamSummary{}, fmt.Errorf("validate session: %w", err)
	}
	if !valid {
		return manager.TeamSummary{}, fmt.Errorf("%w: session cookie was rejected by the provider", ErrUnauthorized)
	}

	summary, err := gateway.TeamSummary(ctx, managerID)
	if err != nil {
		return manager.TeamSummary{}, fmt.Errorf("get team summary: %w", err)
	}

	s.logger.InfoContext(ctx, "manager logged in", "manager_id", managerID)
	return summary, nil
}

// Validate reports whether the cookie still opens an authenticated session.
func (s *AuthService) Validate(ctx context.Context, cookie string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Validate")
	defer span.End()

	if strings.TrimSpace(cookie) == "" {
		return false, nil
	}

	gateway := s.gateways.WithSession(cookie)
	valid, err := gateway.ValidateSession(ctx)
	if err != nil {
		return false, fmt.Errorf("validate session: %w", err)
	}
	return valid, nil
}
