package app

import (
	"fmt"
	"net/http"

	"github.com/riskandar/fpl-agent/external/fpl"
	"github.com/riskandar/fpl-agent/external/openai"
	"github.com/riskandar/fpl-agent/internal/config"
	"github.com/riskandar/fpl-agent/internal/interfaces/httpapi"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/platform/resilience"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	fplClient := fpl.NewClient(fpl.ClientConfig{
		BaseURL:      cfg.FPLBaseURL,
		Timeout:      cfg.FPLTimeout,
		BootstrapTTL: cfg.FPLBootstrapTTL,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	model := openai.NewClient(openai.ClientConfig{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Timeout:     cfg.OpenAITimeout,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: &cfg.OpenAITemperature,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OpenAICircuitEnabled,
			FailureThreshold: cfg.OpenAICircuitFailureCount,
			OpenTimeout:      cfg.OpenAICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OpenAICircuitHalfOpenMaxReq,
		},
	})

	authSvc := usecase.NewAuthService(fplClient, logger)
	teamSvc := usecase.NewTeamService(fplClient, logger)
	suggestionSvc := usecase.NewSuggestionService(fplClient, model, logger)
	chatSvc := usecase.NewChatService(fplClient, model, logger)
	leagueSvc := usecase.NewLeagueService(fplClient, logger)

	handler := httpapi.NewHandler(authSvc, teamSvc, suggestionSvc, chatSvc, leagueSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
