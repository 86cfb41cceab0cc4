package httpapi

import (
	"net/http"
	"strconv"
)

type managerLeaguesResponse struct {
	Classic []leagueMembershipDTO `json:"classic"`
	H2H     []leagueMembershipDTO `json:"h2h"`
}

func (h *Handler) GetManagerLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetManagerLeagues")
	defer span.End()

	managerID, err := parsePathID(r, "managerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagues, err := h.leagueService.ManagerLeagues(ctx, sessionFromContext(ctx), managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, managerLeaguesResponse{
		Classic: toLeagueMembershipDTOs(leagues.Classic),
		H2H:     toLeagueMembershipDTOs(leagues.H2H),
	})
}

func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStandings")
	defer span.End()

	leagueID, err := parsePathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil && parsed > 0 {
			page = parsed
		}
	}

	standings, err := h.leagueService.Standings(ctx, sessionFromContext(ctx), leagueID, page)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toLeagueStandingsDTO(standings))
}
