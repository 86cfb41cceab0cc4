package httpapi

import (
	"net/http"
)

type loginRequest struct {
	Cookie    string `json:"cookie" validate:"required"`
	ManagerID int64  `json:"manager_id" validate:"required,gt=0"`
}

type loginResponse struct {
	Success bool           `json:"success"`
	Manager teamSummaryDTO `json:"manager"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.authService.Login(ctx, req.Cookie, req.ManagerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, loginResponse{
		Success: true,
		Manager: toTeamSummaryDTO(summary),
	})
}

type validateSessionResponse struct {
	Valid bool `json:"valid"`
}

func (h *Handler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateSession")
	defer span.End()

	valid, err := h.authService.Validate(ctx, sessionFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, validateSessionResponse{Valid: valid})
}
