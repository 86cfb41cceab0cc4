package fpl

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
)

// Wire shapes for the provider's JSON. Several numeric stats arrive as
// strings ("4.5") and are parsed leniently: malformed values map to zero.

type bootstrapEnvelope struct {
	Events   []eventItem   `json:"events"`
	Teams    []teamItem    `json:"teams"`
	Elements []elementItem `json:"elements"`
}

type eventItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current"`
	IsNext    bool   `json:"is_next"`
	Finished  bool   `json:"finished"`
}

type teamItem struct {
	ID           int64  `json:"id"`
	Code         int64  `json:"code"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Strength     int    `json:"strength"`
	StrengthHome int    `json:"strength_overall_home"`
	StrengthAway int    `json:"strength_overall_away"`
	Position     int    `json:"position"`
	Played       int    `json:"played"`
	Win          int    `json:"win"`
	Draw         int    `json:"draw"`
	Loss         int    `json:"loss"`
	Points       int    `json:"points"`
}

type elementItem struct {
	ID                       int64  `json:"id"`
	Code                     int64  `json:"code"`
	FirstName                string `json:"first_name"`
	SecondName               string `json:"second_name"`
	WebName                  string `json:"web_name"`
	Team                     int64  `json:"team"`
	ElementType              int    `json:"element_type"`
	NowCost                  int    `json:"now_cost"`
	TotalPoints              int    `json:"total_points"`
	PointsPerGame            string `json:"points_per_game"`
	Form                     string `json:"form"`
	SelectedByPercent        string `json:"selected_by_percent"`
	Status                   string `json:"status"`
	News                     string `json:"news"`
	ChanceOfPlayingNextRound *int   `json:"chance_of_playing_next_round"`
	TransfersInEvent         int    `json:"transfers_in_event"`
	TransfersOutEvent        int    `json:"transfers_out_event"`
	Minutes                  int    `json:"minutes"`
	GoalsScored              int    `json:"goals_scored"`
	Assists                  int    `json:"assists"`
	CleanSheets              int    `json:"clean_sheets"`
}

type entryEnvelope struct {
	ID                         int64  `json:"id"`
	PlayerFirstName            string `json:"player_first_name"`
	PlayerLastName             string `json:"player_last_name"`
	PlayerRegionName           string `json:"player_region_name"`
	Name                       string `json:"name"`
	StartedEvent               int    `json:"started_event"`
	CurrentEvent               int    `json:"current_event"`
	SummaryOverallPoints       int    `json:"summary_overall_points"`
	SummaryOverallRank         int    `json:"summary_overall_rank"`
	SummaryEventPoints         int    `json:"summary_event_points"`
	SummaryEventRank           int    `json:"summary_event_rank"`
	LastDeadlineBank           int    `json:"last_deadline_bank"`
	LastDeadlineValue          int    `json:"last_deadline_value"`
	LastDeadlineTotalTransfers int    `json:"last_deadline_total_transfers"`
	Leagues                    struct {
		Classic []leagueItem `json:"classic"`
		H2H     []leagueItem `json:"h2h"`
	} `json:"leagues"`
}

type leagueItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LeagueType    string `json:"league_type"`
	Scoring       string `json:"scoring"`
	EntryRank     int    `json:"entry_rank"`
	EntryLastRank int    `json:"entry_last_rank"`
	Created       string `json:"created"`
}

type picksEnvelope struct {
	EntryHistory picksHistoryItem `json:"entry_history"`
	Picks        []pickItem       `json:"picks"`
}

type picksHistoryItem struct {
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

type pickItem struct {
	Element       int64 `json:"element"`
	Position      int   `json:"position"`
	Multiplier    int   `json:"multiplier"`
	IsCaptain     bool  `json:"is_captain"`
	IsViceCaptain bool  `json:"is_vice_captain"`
}

type fixtureItem struct {
	ID                  int64   `json:"id"`
	Event               *int    `json:"event"`
	KickoffTime         *string `json:"kickoff_time"`
	TeamH               int64   `json:"team_h"`
	TeamA               int64   `json:"team_a"`
	TeamHDifficulty     int     `json:"team_h_difficulty"`
	TeamADifficulty     int     `json:"team_a_difficulty"`
	TeamHScore          *int    `json:"team_h_score"`
	TeamAScore          *int    `json:"team_a_score"`
	Started             bool    `json:"started"`
	Finished            bool    `json:"finished"`
	FinishedProvisional bool    `json:"finished_provisional"`
}

type meEnvelope struct {
	Player *struct {
		Entry     int64  `json:"entry"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"player"`
}

type standingsEnvelope struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Standings struct {
		HasNext bool           `json:"has_next"`
		Page    int            `json:"page"`
		Results []standingItem `json:"results"`
	} `json:"standings"`
}

type standingItem struct {
	ID         int64  `json:"id"`
	Entry      int64  `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	LastRank   int    `json:"last_rank"`
	RankSort   int    `json:"rank_sort"`
	EventTotal int    `json:"event_total"`
	Total      int    `json:"total"`
}

type elementSummaryEnvelope struct {
	Fixtures []elementFixtureItem `json:"fixtures"`
	History  []elementRoundItem   `json:"history"`
}

type elementFixtureItem struct {
	ID         int64 `json:"id"`
	Event      int   `json:"event"`
	TeamH      int64 `json:"team_h"`
	TeamA      int64 `json:"team_a"`
	IsHome     bool  `json:"is_home"`
	Difficulty int   `json:"difficulty"`
}

type elementRoundItem struct {
	Round        int   `json:"round"`
	OpponentTeam int64 `json:"opponent_team"`
	WasHome      bool  `json:"was_home"`
	TotalPoints  int   `json:"total_points"`
	Minutes      int   `json:"minutes"`
	GoalsScored  int   `json:"goals_scored"`
	Assists      int   `json:"assists"`
	Value        int   `json:"value"`
}

func mapElement(item elementItem, teamNames map[int64]string) player.Player {
	return player.Player{
		ID:                       item.ID,
		Code:                     item.Code,
		FirstName:                strings.TrimSpace(item.FirstName),
		SecondName:               strings.TrimSpace(item.SecondName),
		WebName:                  strings.TrimSpace(item.WebName),
		TeamID:                   item.Team,
		TeamName:                 teamNames[item.Team],
		Position:                 player.PositionFromElementType(item.ElementType),
		NowCost:                  item.NowCost,
		TotalPoints:              item.TotalPoints,
		PointsPerGame:            parseFloatDefault(item.PointsPerGame),
		Form:                     parseFloatDefault(item.Form),
		SelectedByPercent:        parseFloatDefault(item.SelectedByPercent),
		Status:                   item.Status,
		News:                     strings.TrimSpace(item.News),
		ChanceOfPlayingNextRound: item.ChanceOfPlayingNextRound,
		TransfersInEvent:         item.TransfersInEvent,
		TransfersOutEvent:        item.TransfersOutEvent,
		Minutes:                  item.Minutes,
		GoalsScored:              item.GoalsScored,
		Assists:                  item.Assists,
		CleanSheets:              item.CleanSheets,
	}
}

func mapTeam(item teamItem) fixture.Team {
	return fixture.Team{
		ID:           item.ID,
		Code:         item.Code,
		Name:         strings.TrimSpace(item.Name),
		ShortName:    strings.TrimSpace(item.ShortName),
		Strength:     item.Strength,
		StrengthHome: item.StrengthHome,
		StrengthAway: item.StrengthAway,
		Position:     item.Position,
		Played:       item.Played,
		Win:          item.Win,
		Draw:         item.Draw,
		Loss:         item.Loss,
		Points:       item.Points,
	}
}

func mapFixture(item fixtureItem, teamNames map[int64]string) fixture.Fixture {
	return fixture.Fixture{
		ID:                  item.ID,
		Event:               item.Event,
		KickoffAt:           parseProviderTime(item.KickoffTime),
		TeamH:               item.TeamH,
		TeamA:               item.TeamA,
		TeamHName:           teamNames[item.TeamH],
		TeamAName:           teamNames[item.TeamA],
		TeamHDifficulty:     item.TeamHDifficulty,
		TeamADifficulty:     item.TeamADifficulty,
		TeamHScore:          item.TeamHScore,
		TeamAScore:          item.TeamAScore,
		Started:             item.Started,
		Finished:            item.Finished,
		FinishedProvisional: item.FinishedProvisional,
	}
}

func mapEntry(env entryEnvelope) manager.TeamSummary {
	return manager.TeamSummary{
		ID:                   env.ID,
		FirstName:            strings.TrimSpace(env.PlayerFirstName),
		LastName:             strings.TrimSpace(env.PlayerLastName),
		TeamName:             strings.TrimSpace(env.Name),
		Region:               strings.TrimSpace(env.PlayerRegionName),
		StartedEvent:         env.StartedEvent,
		CurrentEvent:         env.CurrentEvent,
		SummaryOverallPoints: env.SummaryOverallPoints,
		SummaryOverallRank:   env.SummaryOverallRank,
		SummaryEventPoints:   env.SummaryEventPoints,
		SummaryEventRank:     env.SummaryEventRank,
		EventTransfers:       0,
		EventTransfersCost:   0,
		TotalTransfers:       env.LastDeadlineTotalTransfers,
		Value:                env.LastDeadlineValue,
		Bank:                 env.LastDeadlineBank,
	}
}

func mapLeagueMemberships(items []leagueItem) []manager.LeagueMembership {
	out := make([]manager.LeagueMembership, 0, len(items))
	for _, item := range items {
		out = append(out, manager.LeagueMembership{
			ID:            item.ID,
			Name:          strings.TrimSpace(item.Name),
			LeagueType:    item.LeagueType,
			Scoring:       item.Scoring,
			EntryRank:     item.EntryRank,
			EntryLastRank: item.EntryLastRank,
			Created:       item.Created,
		})
	}
	return out
}

func mapPicks(env picksEnvelope) manager.GameweekPicks {
	picks := make([]manager.TeamPick, 0, len(env.Picks))
	for _, item := range env.Picks {
		picks = append(picks, manager.TeamPick{
			Element:       item.Element,
			SquadPosition: item.Position,
			Multiplier:    item.Multiplier,
			IsCaptain:     item.IsCaptain,
			IsViceCaptain: item.IsViceCaptain,
		})
	}
	return manager.GameweekPicks{
		Event: env.EntryHistory.Event,
		Picks: picks,
		History: manager.PicksHistory{
			Event:              env.EntryHistory.Event,
			Points:             env.EntryHistory.Points,
			TotalPoints:        env.EntryHistory.TotalPoints,
			Rank:               env.EntryHistory.Rank,
			OverallRank:        env.EntryHistory.OverallRank,
			Bank:               env.EntryHistory.Bank,
			Value:              env.EntryHistory.Value,
			EventTransfers:     env.EntryHistory.EventTransfers,
			EventTransfersCost: env.EntryHistory.EventTransfersCost,
			PointsOnBench:      env.EntryHistory.PointsOnBench,
		},
	}
}

func mapStandings(env standingsEnvelope) manager.LeagueStandings {
	rows := make([]manager.StandingRow, 0, len(env.Standings.Results))
	for _, item := range env.Standings.Results {
		rows = append(rows, manager.StandingRow{
			ID:         item.ID,
			EntryID:    item.Entry,
			EntryName:  strings.TrimSpace(item.EntryName),
			PlayerName: strings.TrimSpace(item.PlayerName),
			Rank:       item.Rank,
			LastRank:   item.LastRank,
			RankSort:   item.RankSort,
			EventTotal: item.EventTotal,
			Total:      item.Total,
		})
	}
	return manager.LeagueStandings{
		LeagueID:   env.League.ID,
		LeagueName: strings.TrimSpace(env.League.Name),
		Page:       env.Standings.Page,
		HasNext:    env.Standings.HasNext,
		Results:    rows,
	}
}

func mapElementSummary(env elementSummaryEnvelope) player.Summary {
	history := make([]player.RoundScore, 0, len(env.History))
	for _, item := range env.History {
		history = append(history, player.RoundScore{
			Event:        item.Round,
			OpponentTeam: item.OpponentTeam,
			WasHome:      item.WasHome,
			Points:       item.TotalPoints,
			Minutes:      item.Minutes,
			Goals:        item.GoalsScored,
			Assists:      item.Assists,
			Value:        item.Value,
		})
	}
	fixtures := make([]player.ComingFixture, 0, len(env.Fixtures))
	for _, item := range env.Fixtures {
		fixtures = append(fixtures, player.ComingFixture{
			ID:         item.ID,
			Event:      item.Event,
			TeamH:      item.TeamH,
			TeamA:      item.TeamA,
			IsHome:     item.IsHome,
			Difficulty: item.Difficulty,
		})
	}
	return player.Summary{History: history, Fixtures: fixtures}
}

func parseFloatDefault(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseProviderTime(value *string) *time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil
	}
	utc := parsed.UTC()
	return &utc
}
