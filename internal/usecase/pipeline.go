package usecase

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/manager"
	"github.com/riskandar/fpl-agent/internal/domain/player"
	"github.com/riskandar/fpl-agent/internal/domain/transfer"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
)

// PipelinePhase is the explicit state of a suggestion run. Phases only move
// forward; Failed is terminal and records which step broke.
type PipelinePhase string

const (
	PhaseInit      PipelinePhase = "init"
	PhaseFetched   PipelinePhase = "fetched"
	PhaseAnalyzed  PipelinePhase = "analyzed"
	PhaseSuggested PipelinePhase = "suggested"
	PhaseFailed    PipelinePhase = "failed"
)

// Step tags carried by a failed run.
const (
	StepDataFetchFailed  = "data_fetch_failed"
	StepAnalysisFailed   = "analysis_failed"
	StepSuggestionFailed = "suggestion_failed"
)

// How many gameweeks of fixtures the fetch stage loads, current included.
const fetchGameweekWindow = 6

// fixtureWindowPerPlayer caps how many upcoming games feed each player's
// fixture outlook.
const fixtureWindowPerPlayer = 5

// PlayerReport bundles the three per-player analyses.
type PlayerReport struct {
	PlayerID int64           `json:"player_id"`
	Name     string          `json:"name"`
	Position player.Position `json:"position"`
	Form     FormReport      `json:"form"`
	Fixtures FixtureOutlook  `json:"fixtures"`
	Value    ValueReport     `json:"value"`
}

// PipelineState is the shared state the three stages write into.
type PipelineState struct {
	Phase     PipelinePhase
	ManagerID int64
	Gameweek  int

	AllPlayers   []player.Player
	Teams        []fixture.Team
	Picks        []manager.TeamPick
	SquadPlayers []player.Player
	Fixtures     []fixture.Fixture
	Summary      manager.TeamSummary

	PlayerReports   []PlayerReport
	Underperformers []Underperformer
	Weaknesses      []string

	Suggestions []transfer.Suggestion

	Feedback            string
	PreviousSuggestions []transfer.Suggestion

	FailedStep string
	ErrMessage string
}

func (s *PipelineState) fail(step, message string) {
	s.Phase = PhaseFailed
	s.FailedStep = step
	s.ErrMessage = message
}

// SuggestionResult is the terminal outcome of one pipeline run.
type SuggestionResult struct {
	Success        bool
	Error          string
	FailedStep     string
	Suggestions    []transfer.Suggestion
	TeamSummary    manager.TeamSummary
	TeamWeaknesses []string
	Gameweek       int
}

// SuggestionService runs the Fetch -> Analyze -> Suggest pipeline. Stages
// run strictly in order, each at most once; the first failure ends the run.
type SuggestionService struct {
	gateways GatewayFactory
	model    ChatModel
	logger   *logging.Logger
}

func NewSuggestionService(gateways GatewayFactory, model ChatModel, logger *logging.Logger) *SuggestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SuggestionService{
		gateways: gateways,
		model:    model,
		logger:   logger,
	}
}

// Suggest executes the pipeline for one manager. Feedback and previous
// suggestions, when present, steer the model toward revised picks.
func (s *SuggestionService) Suggest(ctx context.Context, cookie string, managerID int64, feedback string, previous []transfer.Suggestion) SuggestionResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SuggestionService.Suggest")
	defer span.End()

	started := time.Now()
	gateway := s.gateways.WithSession(cookie)
	state := &PipelineState{
		Phase:               PhaseInit,
		ManagerID:           managerID,
		Feedback:            feedback,
		PreviousSuggestions: previous,
	}

	stages := []func(context.Context, DataGateway, *PipelineState){
		s.fetchData,
		s.analyzeSquad,
		s.generateSuggestions,
	}
	for _, stage := range stages {
		if state.Phase == PhaseFailed {
			break
		}
		stage(ctx, gateway, state)
	}

	result := SuggestionResult{
		Suggestions:    state.Suggestions,
		TeamSummary:    state.Summary,
		TeamWeaknesses: state.Weaknesses,
		Gameweek:       state.Gameweek,
	}
	if state.Phase == PhaseFailed {
		result.Error = state.ErrMessage
		result.FailedStep = state.FailedStep
		s.logger.WarnContext(ctx, "suggestion pipeline failed",
			"manager_id", managerID,
			"step", state.FailedStep,
			"error", state.ErrMessage,
			"elapsed", time.Since(started),
		)
		return result
	}

	result.Success = true
	s.logger.InfoContext(ctx, "suggestion pipeline finished",
		"manager_id", managerID,
		"gameweek", state.Gameweek,
		"suggestions", len(state.Suggestions),
		"elapsed", time.Since(started),
	)
	return result
}

// fetchData loads everything later stages need: the global pools, the
// manager's entry and picks, and fixtures for the upcoming window. Calls
// are sequential and fail-fast.
func (s *SuggestionService) fetchData(ctx context.Context, gateway DataGateway, state *PipelineState) {
	fail := func(err error) {
		state.fail(StepDataFetchFailed, fmt.Sprintf("Failed to fetch data: %v", err))
	}

	allPlayers, err := gateway.AllPlayers(ctx)
	if err != nil {
		fail(err)
		return
	}

	teams, err := gateway.Teams(ctx)
	if err != nil {
		fail(err)
		return
	}

	gameweek, err := gateway.CurrentGameweek(ctx)
	if err != nil {
		fail(err)
		return
	}

	summary, err := gateway.TeamSummary(ctx, state.ManagerID)
	if err != nil {
		fail(err)
		return
	}

	picks, err := gateway.GameweekPicks(ctx, state.ManagerID, gameweek)
	if err != nil {
		fail(err)
		return
	}

	playersByID := make(map[int64]player.Player, len(allPlayers))
	for _, p := range allPlayers {
		playersByID[p.ID] = p
	}
	squad := make([]player.Player, 0, len(picks.Picks))
	for _, pick := range picks.Picks {
		if p, ok := playersByID[pick.Element]; ok {
			squad = append(squad, p)
		}
	}

	lastEvent := gameweek + fetchGameweekWindow - 1
	if lastEvent > 38 {
		lastEvent = 38
	}
	var fixtures []fixture.Fixture
	for event := gameweek; event <= lastEvent; event++ {
		eventFixtures, err := gateway.FixturesByEvent(ctx, event)
		if err != nil {
			fail(err)
			return
		}
		fixtures = append(fixtures, eventFixtures...)
	}

	state.AllPlayers = allPlayers
	state.Teams = teams
	state.Gameweek = gameweek
	state.Summary = summary
	state.Picks = picks.Picks
	state.SquadPlayers = squad
	state.Fixtures = fixtures
	state.Phase = PhaseFetched

	s.logger.InfoContext(ctx, "pipeline data fetched",
		"manager_id", state.ManagerID,
		"gameweek", gameweek,
		"players", len(allPlayers),
		"squad", len(squad),
		"fixtures", len(fixtures),
	)
}

// analyzeSquad scores every squad player and derives team-level weaknesses.
func (s *SuggestionService) analyzeSquad(ctx context.Context, _ DataGateway, state *PipelineState) {
	if len(state.SquadPlayers) == 0 {
		state.fail(StepAnalysisFailed, fmt.Sprintf("Analysis failed: no squad players resolved for gameweek %d", state.Gameweek))
		return
	}

	reports := make([]PlayerReport, 0, len(state.SquadPlayers))
	for _, p := range state.SquadPlayers {
		reports = append(reports, PlayerReport{
			PlayerID: p.ID,
			Name:     p.WebName,
			Position: p.Position,
			Form:     ScorePlayerForm(p, state.AllPlayers),
			Fixtures: AnalyzeFixtureDifficulty(p.TeamID, state.Fixtures, fixtureWindowPerPlayer),
			Value:    ScorePlayerValue(p),
		})
	}

	underperformers := FindUnderperformers(state.SquadPlayers, DefaultFormThreshold)

	var weaknesses []string
	if len(underperformers) > 0 {
		weaknesses = append(weaknesses, fmt.Sprintf("%d players with poor form or injuries", len(underperformers)))
	}

	hardFixtures := 0
	for _, report := range reports {
		if report.Fixtures.Rating == FixtureRatingHard {
			hardFixtures++
		}
	}
	if hardFixtures >= 3 {
		weaknesses = append(weaknesses, fmt.Sprintf("%d players facing difficult fixtures", hardFixtures))
	}

	poorValue := 0
	for _, report := range reports {
		if report.Value.Rating == RatingPoor || report.Value.Rating == RatingAverage {
			poorValue++
		}
	}
	if poorValue >= 4 {
		weaknesses = append(weaknesses, fmt.Sprintf("%d players with poor value for money", poorValue))
	}

	state.PlayerReports = reports
	state.Underperformers = underperformers
	state.Weaknesses = weaknesses
	state.Phase = PhaseAnalyzed

	s.logger.InfoContext(ctx, "pipeline analysis complete",
		"manager_id", state.ManagerID,
		"underperformers", len(underperformers),
		"weaknesses", len(weaknesses),
	)
}

// generateSuggestions asks the model for exactly five transfers and
// validates its reply against the actual squad.
func (s *SuggestionService) generateSuggestions(ctx context.Context, _ DataGateway, state *PipelineState) {
	squadIDs := make(map[int64]struct{}, len(state.SquadPlayers))
	for _, p := range state.SquadPlayers {
		squadIDs[p.ID] = struct{}{}
	}
	budget := state.Summary.BankMillions()

	groups := buildReplacementGroups(state, squadIDs, budget)

	prompt, err := buildSuggestionPrompt(state, groups, budget)
	if err != nil {
		state.fail(StepSuggestionFailed, fmt.Sprintf("Suggestion failed: %v", err))
		return
	}

	reply, err := s.model.Complete(ctx, []ChatMessage{
		{Role: RoleSystem, Content: suggestionSystemPrompt},
		{Role: RoleUser, Content: prompt},
	})
	if err != nil {
		state.fail(StepSuggestionFailed, fmt.Sprintf("Suggestion failed: %v", err))
		return
	}

	var decoded struct {
		Suggestions []transfer.Suggestion `json:"suggestions"`
	}
	if err := sonic.Unmarshal([]byte(extractJSONBlock(reply)), &decoded); err != nil {
		state.fail(StepSuggestionFailed, fmt.Sprintf("Failed to parse suggestions: %v", err))
		return
	}

	playersByID := make(map[int64]player.Player, len(state.AllPlayers))
	for _, p := range state.AllPlayers {
		playersByID[p.ID] = p
	}

	suggestions := make([]transfer.Suggestion, 0, len(decoded.Suggestions))
	for _, suggestion := range decoded.Suggestions {
		if _, owned := squadIDs[suggestion.PlayerInID]; owned {
			s.logger.WarnContext(ctx, "dropped suggestion: incoming player already in squad",
				"player_in_id", suggestion.PlayerInID,
				"player_in_name", suggestion.PlayerInName,
			)
			continue
		}

		playerOut, okOut := playersByID[suggestion.PlayerOutID]
		playerIn, okIn := playersByID[suggestion.PlayerInID]
		if okOut && okIn {
			suggestion.PlayerOut = &playerOut
			suggestion.PlayerIn = &playerIn
			suggestion.BankAfter = budget - suggestion.CostChange
		}
		suggestions = append(suggestions, suggestion)
	}

	state.Suggestions = suggestions
	state.Phase = PhaseSuggested
}

// replacementGroup pairs one underperformer with affordable alternatives.
type replacementGroup struct {
	PlayerOut  squadEntry       `json:"player_out"`
	Reasons    []string         `json:"reasons"`
	Candidates []candidateEntry `json:"candidates"`
}

type squadEntry struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Position player.Position `json:"position"`
	Team     string          `json:"team"`
	Cost     float64         `json:"cost"`
	Form     float64         `json:"form"`
}

type candidateEntry struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Position      player.Position `json:"position"`
	Team          string          `json:"team"`
	Cost          float64         `json:"cost"`
	Form          float64         `json:"form"`
	PointsPerGame float64         `json:"points_per_game"`
	TotalPoints   int             `json:"total_points"`
	SelectedBy    float64         `json:"selected_by_percent"`
}

func buildReplacementGroups(state *PipelineState, squadIDs map[int64]struct{}, budget float64) []replacementGroup {
	underperformers := state.Underperformers
	if len(underperformers) > 5 {
		underperformers = underperformers[:5]
	}

	groups := make([]replacementGroup, 0, len(underperformers))
	for _, under := range underperformers {
		out := under.Player
		maxCost := out.CostMillions() + budget

		// Over-fetch so filtering out owned players still leaves options.
		candidates := TopPerformersByPosition(state.AllPlayers, out.Position, maxCost, 15)
		entries := make([]candidateEntry, 0, 5)
		for _, candidate := range candidates {
			if _, owned := squadIDs[candidate.ID]; owned {
				continue
			}
			entries = append(entries, candidateEntry{
				ID:            candidate.ID,
				Name:          candidate.WebName,
				Position:      candidate.Position,
				Team:          candidate.TeamName,
				Cost:          candidate.CostMillions(),
				Form:          candidate.Form,
				PointsPerGame: candidate.PointsPerGame,
				TotalPoints:   candidate.TotalPoints,
				SelectedBy:    candidate.SelectedByPercent,
			})
			if len(entries) == 5 {
				break
			}
		}

		groups = append(groups, replacementGroup{
			PlayerOut: squadEntry{
				ID:       out.ID,
				Name:     out.WebName,
				Position: out.Position,
				Team:     out.TeamName,
				Cost:     out.CostMillions(),
				Form:     out.Form,
			},
			Reasons:    under.Reasons,
			Candidates: entries,
		})
	}
	return groups
}
