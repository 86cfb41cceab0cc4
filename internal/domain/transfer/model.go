package transfer

import "github.com/riskandar/fpl-agent/internal/domain/player"

// Suggestion is one recommended transfer produced by the suggestion stage.
// CostChange and BankAfter are in millions (player_in cost - player_out
// cost; bank remaining after the move).
type Suggestion struct {
	PlayerOutID        int64   `json:"player_out_id"`
	PlayerOutName      string  `json:"player_out_name"`
	PlayerInID         int64   `json:"player_in_id"`
	PlayerInName       string  `json:"player_in_name"`
	Priority           int     `json:"priority"`
	ExpectedPointsGain float64 `json:"expected_points_gain"`
	Rationale          string  `json:"rationale"`
	FormAnalysis       string  `json:"form_analysis"`
	FixtureAnalysis    string  `json:"fixture_analysis"`
	ValueAnalysis      string  `json:"value_analysis"`
	CostChange         float64 `json:"cost_change"`

	CaptainID       *int64 `json:"captain_id,omitempty"`
	CaptainName     string `json:"captain_name,omitempty"`
	ViceCaptainID   *int64 `json:"vice_captain_id,omitempty"`
	ViceCaptainName string `json:"vice_captain_name,omitempty"`

	// Enrichment added after the LLM reply is validated.
	PlayerOut *player.Player `json:"player_out,omitempty"`
	PlayerIn  *player.Player `json:"player_in,omitempty"`
	BankAfter float64        `json:"bank_after"`
}
