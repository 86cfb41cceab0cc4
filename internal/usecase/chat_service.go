package usecase

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskandar/fpl-agent/internal/domain/transfer"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

// SuggestionSentinel is the marker the model prepends when the user is
// really asking for fresh transfer suggestions.
const SuggestionSentinel = "[NEEDS_SUGGESTIONS]"

type ChatInput struct {
	ManagerID   int64
	Message     string
	Suggestions []transfer.Suggestion
	Watchlist   []WatchlistPlayer
}

// WatchlistPlayer is one entry from the manager's watchlist, echoed into
// the chat context so the model can reason about players the manager is
// already tracking.
type WatchlistPlayer struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position,omitempty"`
	Team     string  `json:"team,omitempty"`
	Cost     float64 `json:"cost,omitempty"`
	Form     float64 `json:"form,omitempty"`
}

type ChatResult struct {
	Reply               string
	IsSuggestionRequest bool
}

// ChatService answers free-form questions about a manager's team. It never
// generates suggestions itself; it only flags when the user wants them.
type ChatService struct {
	gateways GatewayFactory
	model    ChatModel
	logger   *logging.Logger
}

func NewChatService(gateways GatewayFactory, model ChatModel, logger *logging.Logger) *ChatService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatService{
		gateways: gateways,
		model:    model,
		logger:   logger,
	}
}

func (s *ChatService) Message(ctx context.Context, cookie string, input ChatInput) (ChatResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.Message")
	defer span.End()

	if input.ManagerID <= 0 {
		return ChatResult{}, fmt.Errorf("%w: manager id must be greater than zero", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Message) == "" {
		return ChatResult{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	gateway := s.gateways.WithSession(cookie)
	teamContext := s.buildTeamContext(ctx, gateway, input.ManagerID)

	suggestionsContext := ""
	if len(input.Suggestions) > 0 {
		if encoded, err := sonic.MarshalIndent(input.Suggestions, "", " "); err == nil {
			suggestionsContext = "\nCurrent Transfer Suggestions:\n" + string(encoded)
		}
	}

	watchlistContext := ""
	if len(input.Watchlist) > 0 {
		if encoded, err := sonic.MarshalIndent(input.Watchlist, "", " "); err == nil {
			watchlistContext = "\nWatchlist Players:\n" + string(encoded)
		}
	}

	systemPrompt := fmt.Sprintf(chatSystemPromptFormat, teamContext, suggestionsContext, watchlistContext)

	reply, err := s.model.Complete(ctx, []ChatMessage{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: input.Message},
	})
	if err != nil {
		return ChatResult{}, fmt.Errorf("chat completion: %w", err)
	}

	reply = strings.TrimSpace(reply)
	isSuggestionRequest := strings.HasPrefix(reply, SuggestionSentinel)
	if isSuggestionRequest {
		reply = strings.TrimSpace(strings.Replace(reply, SuggestionSentinel, "", 1))
	}

	s.logger.InfoContext(ctx, "chat reply generated",
		"manager_id", input.ManagerID,
		"is_suggestion_request", isSuggestionRequest,
	)

	return ChatResult{
		Reply:               reply,
		IsSuggestionRequest: isSuggestionRequest,
	}, nil
}

// buildTeamContext assembles a compact squad snapshot for the system
// prompt. Failures degrade the context instead of failing the chat.
func (s *ChatService) buildTeamContext(ctx context.Context, gateway DataGateway, managerID int64) string {
	gameweek, err := gateway.CurrentGameweek(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch full team context", "manager_id", managerID, "error", err)
		return "Team data not fully available."
	}
	summary, err := gateway.TeamSummary(ctx, managerID)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch full team context", "manager_id", managerID, "error", err)
		return "Team data not fully available."
	}
	picks, err := gateway.GameweekPicks(ctx, managerID, gameweek)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch full team context", "manager_id", managerID, "error", err)
		return "Team data not fully available."
	}
	allPlayers, err := gateway.AllPlayers(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch full team context", "manager_id", managerID, "error", err)
		return "Team data not fully available."
	}

	type squadLine struct {
		Name          string  `json:"name"`
		Position      string  `json:"position"`
		Team          string  `json:"team"`
		Form          float64 `json:"form"`
		Points        int     `json:"points"`
		PPG           float64 `json:"ppg"`
		Cost          float64 `json:"cost"`
		Ownership     float64 `json:"ownership"`
		Status        string  `json:"status"`
		News          string  `json:"news"`
		IsStarter     bool    `json:"is_starter"`
		IsCaptain     bool    `json:"is_captain"`
		IsViceCaptain bool    `json:"is_vice_captain"`
	}

	playersByID := make(map[int64]int, len(allPlayers))
	for i, p := range allPlayers {
		playersByID[p.ID] = i
	}

	squad := make([]squadLine, 0, len(picks.Picks))
	for _, pick := range picks.Picks {
		idx, ok := playersByID[pick.Element]
		if !ok {
			continue
		}
		p := allPlayers[idx]
		squad = append(squad, squadLine{
			Name:          p.WebName,
			Position:      string(p.Position),
			Team:          p.TeamName,
			Form:          p.Form,
			Points:        p.TotalPoints,
			PPG:           p.PointsPerGame,
			Cost:          p.CostMillions(),
			Ownership:     p.SelectedByPercent,
			Status:        p.Status,
			News:          p.News,
			IsStarter:     pick.SquadPosition <= 11,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}

	squadJSON, err := sonic.MarshalIndent(squad, "", " ")
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch full team context", "manager_id", managerID, "error", err)
		return "Team data not fully available."
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = fmt.Fprintf(buf, "Current Gameweek: %d\n", gameweek)
	_, _ = buf.WriteString("Team Summary:\n")
	_, _ = fmt.Fprintf(buf, "- Total Points: %d\n", summary.SummaryOverallPoints)
	_, _ = fmt.Fprintf(buf, "- Overall Rank: %d\n", summary.SummaryOverallRank)
	_, _ = fmt.Fprintf(buf, "- Team Value: £%.1fm\n", summary.TeamValueMillions())
	_, _ = fmt.Fprintf(buf, "- Bank: £%.1fm\n", summary.BankMillions())
	_, _ = fmt.Fprintf(buf, "- GW Transfers Used: %d\n", picks.History.EventTransfers)
	_, _ = buf.WriteString("\nSquad:\n")
	_, _ = buf.Write(squadJSON)

	return buf.String()
}

const chatSystemPromptFormat = `You are an expert Fantasy Premier League (FPL) assistant. You have deep knowledge about FPL strategy, player form, fixtures, and team management.

You are chatting with a manager. Answer their questions thoughtfully and provide detailed, actionable FPL advice. Use the team data provided to give personalized answers.

IMPORTANT RULES:
1. If the user is asking a QUESTION (about their team, a player, strategy, FPL rules, etc.), answer it directly. DO NOT generate transfer suggestions.
2. If the user explicitly asks for NEW transfer suggestions, updated suggestions, or replacement players, respond with EXACTLY this text at the very start of your reply: "[NEEDS_SUGGESTIONS]". The system will then trigger the suggestion engine.
3. Be conversational, friendly, and knowledgeable. Use emoji occasionally.
4. Reference specific players from their squad when relevant.
5. When discussing strategy, consider GW deadlines, chip strategy, differential picks, and fixture difficulty.
6. Keep responses concise but comprehensive: aim for 2-4 paragraphs.

%s
%s
%s
`
