package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/domain/transfer"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

func chatGateway() *stubGateway {
	return &stubGateway{
		players: []player.Player{
			{ID: 1, WebName: "Alpha", Position: player.PositionForward, TeamName: "Arsenal", NowCost: 80, Form: 5.0, TotalPoints: 90},
		},
		gameweek: 9,
		summary:  manager.TeamSummary{ID: 7, TeamName: "Test XI", Value: 1003, Bank: 12},
		picks: manager.GameweekPicks{
			Event: 9,
			Picks: []manager.TeamPick{{Element: 1, SquadPosition: 1, IsCaptain: true}},
		},
	}
}

func TestChatMessage_Validation(t *testing.T) {
	t.Parallel()

	svc := NewChatService(chatGateway(), &stubModel{reply: "hi"}, logging.NewNop())

	t.Run("manager id required", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Message(context.Background(), "cookie", ChatInput{Message: "hello"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("message required", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "   "})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestChatMessage_PlainReply(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: "  Your captain looks solid this week.  "}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	result, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "thoughts on my captain?"})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if result.IsSuggestionRequest {
		t.Fatalf("plain reply flagged as suggestion request")
	}
	if result.Reply != "Your captain looks solid this week." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
}

func TestChatMessage_SentinelIsDetectedAndStripped(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: SuggestionSentinel + " Let me line up fresh transfers for you."}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	result, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "give me new suggestions"})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if !result.IsSuggestionRequest {
		t.Fatalf("sentinel not detected")
	}
	if strings.Contains(result.Reply, SuggestionSentinel) {
		t.Fatalf("sentinel not stripped: %q", result.Reply)
	}
	if result.Reply != "Let me line up fresh transfers for you." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
}

func TestChatMessage_TeamContextInSystemPrompt(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: "ok"}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "hello"})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if len(model.lastMessages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(model.lastMessages))
	}
	system := model.lastMessages[0]
	if system.Role != RoleSystem {
		t.Fatalf("unexpected first role: %s", system.Role)
	}
	if !strings.Contains(system.Content, "Current Gameweek: 9") {
		t.Fatalf("team context missing gameweek")
	}
	if !strings.Contains(system.Content, "Alpha") {
		t.Fatalf("team context missing squad player")
	}
}

func TestChatMessage_ContextDegradesOnFetchFailure(t *testing.T) {
	t.Parallel()

	gateway := chatGateway()
	gateway.summaryErr = errStubProvider
	model := &stubModel{reply: "ok"}
	svc := NewChatService(gateway, model, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "hello"})
	if err != nil {
		t.Fatalf("chat should survive context failures: %v", err)
	}
	if !strings.Contains(model.lastMessages[0].Content, "Team data not fully available.") {
		t.Fatalf("expected degraded context marker")
	}
}

func TestChatMessage_SuggestionsContextIncluded(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: "ok"}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{
		ManagerID: 7,
		Message:   "why this transfer?",
		Suggestions: []transfer.Suggestion{
			{PlayerOutID: 1, PlayerOutName: "Alpha", PlayerInID: 100, PlayerInName: "Carter"},
		},
	})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if !strings.Contains(model.lastMessages[0].Content, "Current Transfer Suggestions:") {
		t.Fatalf("suggestions context missing")
	}
	if !strings.Contains(model.lastMessages[0].Content, "Carter") {
		t.Fatalf("suggestion payload missing from context")
	}
}

func TestChatMessage_WatchlistContextIncluded(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: "ok"}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{
		ManagerID: 7,
		Message:   "should I bring in anyone from my watchlist?",
		Watchlist: []WatchlistPlayer{
			{ID: 200, Name: "Delgado", Position: "MID", Team: "Brentford", Cost: 6.5, Form: 7.2},
		},
	})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if !strings.Contains(model.lastMessages[0].Content, "Watchlist Players:") {
		t.Fatalf("watchlist context missing")
	}
	if !strings.Contains(model.lastMessages[0].Content, "Delgado") {
		t.Fatalf("watchlist payload missing from context")
	}
}

func TestChatMessage_WatchlistContextOmittedWhenEmpty(t *testing.T) {
	t.Parallel()

	model := &stubModel{reply: "ok"}
	svc := NewChatService(chatGateway(), model, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "hello"})
	if err != nil {
		t.Fatalf("chat message: %v", err)
	}
	if strings.Contains(model.lastMessages[0].Content, "Watchlist Players:") {
		t.Fatalf("watchlist section present without watchlist")
	}
}

func TestChatMessage_ModelFailure(t *testing.T) {
	t.Parallel()

	svc := NewChatService(chatGateway(), &stubModel{err: errStubProvider}, logging.NewNop())

	_, err := svc.Message(context.Background(), "cookie", ChatInput{ManagerID: 7, Message: "hello"})
	if err == nil {
		t.Fatalf("expected error from model failure")
	}
}
