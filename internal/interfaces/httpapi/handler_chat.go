package httpapi

import (
	"net/http"

	"github.com/riskandar/fpl-agent/internal/domain/transfer"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

type chatMessageRequest struct {
	ManagerID int64  `json:"manager_id" validate:"required,gt=0"`
	Message   string `json:"message" validate:"required"`
	Context   struct {
		Suggestions []transfer.Suggestion     `json:"suggestions"`
		Watchlist   []usecase.WatchlistPlayer `json:"watchlist"`
	} `json:"context"`
}

type chatMessageResponse struct {
	Success             bool   `json:"success"`
	Reply               string `json:"reply"`
	IsSuggestionRequest bool   `json:"is_suggestion_request"`
}

func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChatMessage")
	defer span.End()

	var req chatMessageRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.chatService.Message(ctx, sessionFromContext(ctx), usecase.ChatInput{
		ManagerID:   req.ManagerID,
		Message:     req.Message,
		Suggestions: req.Context.Suggestions,
		Watchlist:   req.Context.Watchlist,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, chatMessageResponse{
		Success:             true,
		Reply:               result.Reply,
		IsSuggestionRequest: result.IsSuggestionRequest,
	})
}
