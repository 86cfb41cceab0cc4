package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/riskandar/fpl-agent/internal/usecase"
)

type teamOverviewResponse struct {
	Manager  teamSummaryDTO `json:"manager"`
	Gameweek int            `json:"gameweek"`
	Picks    []pickDTO      `json:"picks"`
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	managerID, err := parsePathID(r, "managerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	overview, err := h.teamService.Overview(ctx, sessionFromContext(ctx), managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, teamOverviewResponse{
		Manager:  toTeamSummaryDTO(overview.Summary),
		Gameweek: overview.Gameweek,
		Picks:    toPickDTOs(overview.Picks),
	})
}

func (h *Handler) GetTeamPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPicks")
	defer span.End()

	managerID, err := parsePathID(r, "managerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameweek, err := strconv.Atoi(r.PathValue("gameweek"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: gameweek must be an integer", usecase.ErrInvalidInput))
		return
	}

	picks, err := h.teamService.Picks(ctx, sessionFromContext(ctx), managerID, gameweek)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toGameweekPicksDTO(picks))
}

type playerDetailResponse struct {
	Player   playerDTO          `json:"player"`
	History  []roundScoreDTO    `json:"history"`
	Fixtures []comingFixtureDTO `json:"fixtures"`
}

func (h *Handler) GetPlayerDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerDetail")
	defer span.End()

	playerID, err := parsePathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.teamService.PlayerDetail(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	history, fixtures := toPlayerSummaryDTOs(detail.Summary)
	writeJSON(ctx, w, http.StatusOK, playerDetailResponse{
		Player:   toPlayerDTO(detail.Player),
		History:  history,
		Fixtures: fixtures,
	})
}
