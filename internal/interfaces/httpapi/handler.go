package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

type Handler struct {
	authService       *usecase.AuthService
	teamService       *usecase.TeamService
	suggestionService *usecase.SuggestionService
	chatService       *usecase.ChatService
	leagueService     *usecase.LeagueService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	teamService *usecase.TeamService,
	suggestionService *usecase.SuggestionService,
	chatService *usecase.ChatService,
	leagueService *usecase.LeagueService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:       authService,
		teamService:       teamService,
		suggestionService: suggestionService,
		chatService:       chatService,
		leagueService:     leagueService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fpl-agent",
	})
}

func (h *Handler) decodeBody(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: malformed json body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parsePathID(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
