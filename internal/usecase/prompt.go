package usecase

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

const suggestionSystemPrompt = `You are an expert Fantasy Premier League (FPL) analyst.
Your job is to analyze a user's team and suggest the best transfer options based on comprehensive FPL strategies:
1. Form vs Fixtures: Balance a player's recent form against upcoming fixture difficulty (FDR). Look for fixture swings.
2. Underlying Stats: Consider xG (Expected Goals), xA (Expected Assists), and xGI (Expected Goal Involvement).
3. Value and Budget: Optimize points per million. Take advantage of price changes but prioritize points over team value.
4. Effective Ownership (EO) & Differentials: Identify highly-owned "essential" players vs low-owned "differentials" with high upside.
5. Structural Logic: Don't just exchange low-value players. Consider downgrading a premium player who is out of form or has bad fixtures to upgrade elsewhere, or capitalizing on a mid-priced player hitting form.
6. Long-Term vs Short-Term: Consider Blank Gameweeks (BGW) and Double Gameweeks (DGW) and team structure.
7. Captaincy: Always evaluate the best captain and vice-captain choices based on explosive potential and fixture. Ensure your transfers align with captaincy plans if relevant.

Provide exactly 5 transfer suggestions, ranked by priority (1=highest, 2=high, 3=medium, 4=low, 5=lowest).
IMPORTANT CONSTRAINT 1: Do not suggest transferring out the SAME player more than 2 times across your 5 suggestions to ensure variety.
IMPORTANT CONSTRAINT 2: DO NOT suggest transferring IN a player who is already in the CURRENT SQUAD.
For each suggestion, provide detailed rationale covering the above advanced strategies.
If the user provides feedback, adjust your suggestions accordingly.`

const suggestionReplyFormat = `{
  "suggestions": [
    {
      "player_out_id": <id>,
      "player_out_name": "<name>",
      "player_in_id": <id>,
      "player_in_name": "<name>",
      "priority": 1,
      "expected_points_gain": <float>,
      "rationale": "<detailed explanation of underlying stats, structural benefits, etc.>",
      "form_analysis": "<form comparison>",
      "fixture_analysis": "<fixture comparison>",
      "value_analysis": "<value comparison>",
      "cost_change": <float in millions>,
      "captain_id": <id>,
      "captain_name": "<name of suggested captain based on resulting team>",
      "vice_captain_id": <id>,
      "vice_captain_name": "<name of suggested vice-captain>"
    }
  ]
}`

// buildSuggestionPrompt renders the user prompt for the suggestion stage.
func buildSuggestionPrompt(state *PipelineState, groups []replacementGroup, budget float64) (string, error) {
	squad := make([]squadEntry, 0, len(state.SquadPlayers))
	for _, p := range state.SquadPlayers {
		squad = append(squad, squadEntry{
			ID:       p.ID,
			Name:     p.WebName,
			Position: p.Position,
			Team:     p.TeamName,
			Cost:     p.CostMillions(),
			Form:     p.Form,
		})
	}

	squadJSON, err := sonic.MarshalIndent(squad, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal squad summary: %w", err)
	}
	groupsJSON, err := sonic.MarshalIndent(groups, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal replacement candidates: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	line := func(parts ...string) {
		for _, part := range parts {
			_, _ = buf.WriteString(part)
		}
		_ = buf.WriteByte('\n')
	}

	line("Analyze this FPL team comprehensively and suggest exactly 5 transfer options (1 transfer per option):")
	line()
	line("TEAM SUMMARY:")
	line(fmt.Sprintf("- Budget available: £%.1fm", budget))
	line(fmt.Sprintf("- Current gameweek: %d", state.Gameweek))
	line(fmt.Sprintf("- Team value: £%.1fm", state.Summary.TeamValueMillions()))
	line()
	line("CURRENT SQUAD:")
	line(string(squadJSON))
	line()
	line("TEAM WEAKNESSES:")
	for _, weakness := range state.Weaknesses {
		line("- ", weakness)
	}
	line()
	line("UNDERPERFORMING PLAYERS & REPLACEMENT OPTIONS (You are NOT limited to these. You can transfer ANY player out, including premiums out of form, for structural reasons):")
	line(string(groupsJSON))

	if strings.TrimSpace(state.Feedback) != "" {
		previousJSON, err := sonic.MarshalIndent(state.PreviousSuggestions, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal previous suggestions: %w", err)
		}
		line()
		line("USER FEEDBACK ON PREVIOUS SUGGESTIONS:")
		line(`"`, state.Feedback, `"`)
		line()
		line("PREVIOUS SUGGESTIONS:")
		line(string(previousJSON))
		line()
		line("IMPORTANT: If the user asks to replace a SPECIFIC suggestion, keep the other 4 suggestions EXACTLY as they were, and only replace the one they requested with a new alternative. If their feedback is general, provide NEW, DIFFERENT suggestions that address their concerns.")
	}

	line()
	line("Please provide exactly 5 transfer suggestions in this JSON format:")
	line(suggestionReplyFormat)
	line()
	line("Ensure all suggestions are within budget and maintain squad composition rules (max 3 players from a single real-life team).")

	return buf.String(), nil
}

// extractJSONBlock pulls the first fenced code block out of a model reply,
// preferring an explicit json fence. Replies without fences pass through.
func extractJSONBlock(text string) string {
	if start := strings.Index(text, "```json"); start >= 0 {
		rest := text[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
