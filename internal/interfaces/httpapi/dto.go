package httpapi

import (
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/domain/transfer"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

type playerDTO struct {
	ID                       int64   `json:"id"`
	WebName                  string  `json:"web_name"`
	FirstName                string  `json:"first_name"`
	SecondName               string  `json:"second_name"`
	TeamID                   int64   `json:"team"`
	TeamName                 string  `json:"team_name"`
	Position                 string  `json:"position"`
	NowCost                  int     `json:"now_cost"`
	CostMillions             float64 `json:"cost_millions"`
	TotalPoints              int     `json:"total_points"`
	PointsPerGame            float64 `json:"points_per_game"`
	Form                     float64 `json:"form"`
	SelectedByPercent        float64 `json:"selected_by_percent"`
	Status                   string  `json:"status"`
	News                     string  `json:"news,omitempty"`
	ChanceOfPlayingNextRound *int    `json:"chance_of_playing_next_round,omitempty"`
	TransfersInEvent         int     `json:"transfers_in_event"`
	TransfersOutEvent        int     `json:"transfers_out_event"`
	Minutes                  int     `json:"minutes"`
	GoalsScored              int     `json:"goals_scored"`
	Assists                  int     `json:"assists"`
	CleanSheets              int     `json:"clean_sheets"`
}

func toPlayerDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:                       p.ID,
		WebName:                  p.WebName,
		FirstName:                p.FirstName,
		SecondName:               p.SecondName,
		TeamID:                   p.TeamID,
		TeamName:                 p.TeamName,
		Position:                 string(p.Position),
		NowCost:                  p.NowCost,
		CostMillions:             p.CostMillions(),
		TotalPoints:              p.TotalPoints,
		PointsPerGame:            p.PointsPerGame,
		Form:                     p.Form,
		SelectedByPercent:        p.SelectedByPercent,
		Status:                   p.Status,
		News:                     p.News,
		ChanceOfPlayingNextRound: p.ChanceOfPlayingNextRound,
		TransfersInEvent:         p.TransfersInEvent,
		TransfersOutEvent:        p.TransfersOutEvent,
		Minutes:                  p.Minutes,
		GoalsScored:              p.GoalsScored,
		Assists:                  p.Assists,
		CleanSheets:              p.CleanSheets,
	}
}

func toPlayerDTOPtr(p *player.Player) *playerDTO {
	if p == nil {
		return nil
	}
	dto := toPlayerDTO(*p)
	return &dto
}

type teamSummaryDTO struct {
	ID                 int64   `json:"id"`
	ManagerName        string  `json:"manager_name"`
	TeamName           string  `json:"team_name"`
	Region             string  `json:"region,omitempty"`
	StartedEvent       int     `json:"started_event"`
	CurrentEvent       int     `json:"current_event"`
	OverallPoints      int     `json:"overall_points"`
	OverallRank        int     `json:"overall_rank"`
	EventPoints        int     `json:"event_points"`
	EventRank          int     `json:"event_rank"`
	EventTransfers     int     `json:"event_transfers"`
	EventTransfersCost int     `json:"event_transfers_cost"`
	TotalTransfers     int     `json:"total_transfers"`
	TeamValue          float64 `json:"team_value"`
	Bank               float64 `json:"bank"`
}

func toTeamSummaryDTO(s manager.TeamSummary) teamSummaryDTO {
	return teamSummaryDTO{
		ID:                 s.ID,
		ManagerName:        s.ManagerName(),
		TeamName:           s.TeamName,
		Region:             s.Region,
		StartedEvent:       s.StartedEvent,
		CurrentEvent:       s.CurrentEvent,
		OverallPoints:      s.SummaryOverallPoints,
		OverallRank:        s.SummaryOverallRank,
		EventPoints:        s.SummaryEventPoints,
		EventRank:          s.SummaryEventRank,
		EventTransfers:     s.EventTransfers,
		EventTransfersCost: s.EventTransfersCost,
		TotalTransfers:     s.TotalTransfers,
		TeamValue:          s.TeamValueMillions(),
		Bank:               s.BankMillions(),
	}
}

type pickDTO struct {
	Element       int64     `json:"element"`
	SquadPosition int       `json:"position"`
	Multiplier    int       `json:"multiplier"`
	IsCaptain     bool      `json:"is_captain"`
	IsViceCaptain bool      `json:"is_vice_captain"`
	Player        playerDTO `json:"player"`
}

func toPickDTOs(details []usecase.PickDetail) []pickDTO {
	out := make([]pickDTO, 0, len(details))
	for _, d := range details {
		out = append(out, pickDTO{
			Element:       d.Pick.Element,
			SquadPosition: d.Pick.SquadPosition,
			Multiplier:    d.Pick.Multiplier,
			IsCaptain:     d.Pick.IsCaptain,
			IsViceCaptain: d.Pick.IsViceCaptain,
			Player:        toPlayerDTO(d.Player),
		})
	}
	return out
}

type rawPickDTO struct {
	Element       int64 `json:"element"`
	SquadPosition int   `json:"position"`
	Multiplier    int   `json:"multiplier"`
	IsCaptain     bool  `json:"is_captain"`
	IsViceCaptain bool  `json:"is_vice_captain"`
}

type picksHistoryDTO struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	Rank               int `json:"rank"`
	OverallRank        int `json:"overall_rank"`
	Bank               int `json:"bank"`
	Value              int `json:"value"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
	PointsOnBench      int `json:"points_on_bench"`
}

type gameweekPicksDTO struct {
	Event   int             `json:"event"`
	Picks   []rawPickDTO    `json:"picks"`
	History picksHistoryDTO `json:"entry_history"`
}

func toGameweekPicksDTO(picks manager.GameweekPicks) gameweekPicksDTO {
	raw := make([]rawPickDTO, 0, len(picks.Picks))
	for _, p := range picks.Picks {
		raw = append(raw, rawPickDTO{
			Element:       p.Element,
			SquadPosition: p.SquadPosition,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
		})
	}
	return gameweekPicksDTO{
		Event: picks.Event,
		Picks: raw,
		History: picksHistoryDTO{
			Event:              picks.History.Event,
			Points:             picks.History.Points,
			TotalPoints:        picks.History.TotalPoints,
			Rank:               picks.History.Rank,
			OverallRank:        picks.History.OverallRank,
			Bank:               picks.History.Bank,
			Value:              picks.History.Value,
			EventTransfers:     picks.History.EventTransfers,
			EventTransfersCost: picks.History.EventTransfersCost,
			PointsOnBench:      picks.History.PointsOnBench,
		},
	}
}

type suggestionDTO struct {
	PlayerOutID        int64   `json:"player_out_id"`
	PlayerOutName      string  `json:"player_out_name"`
	PlayerInID         int64   `json:"player_in_id"`
	PlayerInName       string  `json:"player_in_name"`
	Priority           int     `json:"priority"`
	ExpectedPointsGain float64 `json:"expected_points_gain"`
	Rationale          string  `json:"rationale"`
	FormAnalysis       string  `json:"form_analysis,omitempty"`
	FixtureAnalysis    string  `json:"fixture_analysis,omitempty"`
	ValueAnalysis      string  `json:"value_analysis,omitempty"`
	CostChange         float64 `json:"cost_change"`

	CaptainID       *int64 `json:"captain_id,omitempty"`
	CaptainName     string `json:"captain_name,omitempty"`
	ViceCaptainID   *int64 `json:"vice_captain_id,omitempty"`
	ViceCaptainName string `json:"vice_captain_name,omitempty"`

	PlayerOut *playerDTO `json:"player_out,omitempty"`
	PlayerIn  *playerDTO `json:"player_in,omitempty"`
	BankAfter float64    `json:"bank_after"`
}

func toSuggestionDTOs(suggestions []transfer.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionDTO{
			PlayerOutID:        s.PlayerOutID,
			PlayerOutName:      s.PlayerOutName,
			PlayerInID:         s.PlayerInID,
			PlayerInName:       s.PlayerInName,
			Priority:           s.Priority,
			ExpectedPointsGain: s.ExpectedPointsGain,
			Rationale:          s.Rationale,
			FormAnalysis:       s.FormAnalysis,
			FixtureAnalysis:    s.FixtureAnalysis,
			ValueAnalysis:      s.ValueAnalysis,
			CostChange:         s.CostChange,
			CaptainID:          s.CaptainID,
			CaptainName:        s.CaptainName,
			ViceCaptainID:      s.ViceCaptainID,
			ViceCaptainName:    s.ViceCaptainName,
			PlayerOut:          toPlayerDTOPtr(s.PlayerOut),
			PlayerIn:           toPlayerDTOPtr(s.PlayerIn),
			BankAfter:          s.BankAfter,
		})
	}
	return out
}

type leagueMembershipDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LeagueType    string `json:"league_type"`
	Scoring       string `json:"scoring,omitempty"`
	EntryRank     int    `json:"entry_rank"`
	EntryLastRank int    `json:"entry_last_rank"`
	Created       string `json:"created,omitempty"`
}

func toLeagueMembershipDTOs(memberships []manager.LeagueMembership) []leagueMembershipDTO {
	out := make([]leagueMembershipDTO, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, leagueMembershipDTO{
			ID:            m.ID,
			Name:          m.Name,
			LeagueType:    m.LeagueType,
			Scoring:       m.Scoring,
			EntryRank:     m.EntryRank,
			EntryLastRank: m.EntryLastRank,
			Created:       m.Created,
		})
	}
	return out
}

type standingRowDTO struct {
	ID         int64  `json:"id"`
	EntryID    int64  `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	LastRank   int    `json:"last_rank"`
	RankSort   int    `json:"rank_sort"`
	EventTotal int    `json:"event_total"`
	Total      int    `json:"total"`
}

type leagueStandingsDTO struct {
	LeagueID   int64            `json:"league_id"`
	LeagueName string           `json:"league_name"`
	Page       int              `json:"page"`
	HasNext    bool             `json:"has_next"`
	Results    []standingRowDTO `json:"results"`
}

func toLeagueStandingsDTO(standings manager.LeagueStandings) leagueStandingsDTO {
	rows := make([]standingRowDTO, 0, len(standings.Results))
	for _, r := range standings.Results {
		rows = append(rows, standingRowDTO{
			ID:         r.ID,
			EntryID:    r.EntryID,
			EntryName:  r.EntryName,
			PlayerName: r.PlayerName,
			Rank:       r.Rank,
			LastRank:   r.LastRank,
			RankSort:   r.RankSort,
			EventTotal: r.EventTotal,
			Total:      r.Total,
		})
	}
	return leagueStandingsDTO{
		LeagueID:   standings.LeagueID,
		LeagueName: standings.LeagueName,
		Page:       standings.Page,
		HasNext:    standings.HasNext,
		Results:    rows,
	}
}

type roundScoreDTO struct {
	Event        int   `json:"event"`
	OpponentTeam int64 `json:"opponent_team"`
	WasHome      bool  `json:"was_home"`
	Points       int   `json:"points"`
	Minutes      int   `json:"minutes"`
	Goals        int   `json:"goals"`
	Assists      int   `json:"assists"`
	Value        int   `json:"value"`
}

type comingFixtureDTO struct {
	ID         int64 `json:"id"`
	Event      int   `json:"event"`
	TeamH      int64 `json:"team_h"`
	TeamA      int64 `json:"team_a"`
	IsHome     bool  `json:"is_home"`
	Difficulty int   `json:"difficulty"`
}

func toPlayerSummaryDTOs(summary player.Summary) ([]roundScoreDTO, []comingFixtureDTO) {
	history := make([]roundScoreDTO, 0, len(summary.History))
	for _, h := range summary.History {
		history = append(history, roundScoreDTO{
			Event:        h.Event,
			OpponentTeam: h.OpponentTeam,
			WasHome:      h.WasHome,
			Points:       h.Points,
			Minutes:      h.Minutes,
			Goals:        h.Goals,
			Assists:      h.Assists,
			Value:        h.Value,
		})
	}
	fixtures := make([]comingFixtureDTO, 0, len(summary.Fixtures))
	for _, f := range summary.Fixtures {
		fixtures = append(fixtures, comingFixtureDTO{
			ID:         f.ID,
			Event:      f.Event,
			TeamH:      f.TeamH,
			TeamA:      f.TeamA,
			IsHome:     f.IsHome,
			Difficulty: f.Difficulty,
		})
	}
	return history, fixtures
}
