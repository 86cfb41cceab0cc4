package httpapi

import (
	"net/http"

	"github.com/riskandar/fpl-agent/internal/domain/transfer"
)

type suggestTransfersRequest struct {
	ManagerID int64  `json:"manager_id" validate:"required,gt=0"`
	Feedback  string `json:"feedback"`

	// Prior suggestions the user is iterating on; passed back to the
	// model verbatim so feedback has something to refer to.
	CurrentSuggestions []transfer.Suggestion `json:"current_suggestions"`
}

type suggestTransfersResponse struct {
	Success        bool            `json:"success"`
	Error          string          `json:"error,omitempty"`
	FailedStep     string          `json:"failed_step,omitempty"`
	Suggestions    []suggestionDTO `json:"suggestions"`
	TeamSummary    *teamSummaryDTO `json:"team_summary,omitempty"`
	TeamWeaknesses []string        `json:"team_weaknesses"`
	Gameweek       int             `json:"gameweek"`
}

// SuggestTransfers always responds 200 with a terminal pipeline result;
// stage failures surface in the body, not the status code.
func (h *Handler) SuggestTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SuggestTransfers")
	defer span.End()

	var req suggestTransfersRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.suggestionService.Suggest(ctx, sessionFromContext(ctx), req.ManagerID, req.Feedback, req.CurrentSuggestions)

	resp := suggestTransfersResponse{
		Success:        result.Success,
		Error:          result.Error,
		FailedStep:     result.FailedStep,
		Suggestions:    toSuggestionDTOs(result.Suggestions),
		TeamWeaknesses: result.TeamWeaknesses,
		Gameweek:       result.Gameweek,
	}
	if result.TeamSummary.ID != 0 {
		summary := toTeamSummaryDTO(result.TeamSummary)
		resp.TeamSummary = &summary
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []suggestionDTO{}
	}
	if resp.TeamWeaknesses == nil {
		resp.TeamWeaknesses = []string{}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
