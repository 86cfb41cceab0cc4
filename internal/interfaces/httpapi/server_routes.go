package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/health", handler.Health)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/auth/login", handler.Login)
	mux.HandleFunc("GET /api/players/{playerID}", handler.GetPlayerDetail)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /api/auth/validate", RequireSession(http.HandlerFunc(handler.ValidateSession)))
	mux.Handle("GET /api/team/{managerID}", RequireSession(http.HandlerFunc(handler.GetTeam)))
	mux.Handle("GET /api/team/{managerID}/picks/{gameweek}", RequireSession(http.HandlerFunc(handler.GetTeamPicks)))
	mux.Handle("POST /api/transfers/suggest", RequireSession(http.HandlerFunc(handler.SuggestTransfers)))
	mux.Handle("POST /api/chat/message", RequireSession(http.HandlerFunc(handler.ChatMessage)))
	mux.Handle("GET /api/leagues/manager/{managerID}", OptionalSession(http.HandlerFunc(handler.GetManagerLeagues)))
	mux.Handle("GET /api/leagues/{leagueID}/standings", OptionalSession(http.HandlerFunc(handler.GetLeagueStandings)))
}
