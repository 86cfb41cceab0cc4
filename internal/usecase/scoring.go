package usecase

import (
	"math"
	"sort"
	"strconv"

	"github.com/riskandar/fpl-agent/internal/domain/fixture"
	"github.com/riskandar/fpl-agent/internal/domain/player"
)

// Ratings shared by the fixture, form, and value classifiers.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingAverage   = "Average"
	RatingPoor      = "Poor"

	FixtureRatingEasy     = "Easy"
	FixtureRatingModerate = "Moderate"
	FixtureRatingHard     = "Hard"
	FixtureRatingUnknown  = "Unknown"
)

// DefaultFormThreshold is the form score below which a squad player counts
// as underperforming.
const DefaultFormThreshold = 3.0

// UpcomingFixture is one unfinished match seen from a player's team.
type UpcomingFixture struct {
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Difficulty int    `json:"difficulty"`
}

// FixtureOutlook classifies a team's schedule over its next games.
type FixtureOutlook struct {
	AvgDifficulty float64           `json:"avg_difficulty"`
	Fixtures      []UpcomingFixture `json:"fixtures"`
	Rating        string            `json:"rating"`
}

// AnalyzeFixtureDifficulty averages the difficulty of up to nextN unfinished
// fixtures involving teamID, in fixture-list order. With no unfinished
// fixtures the outlook is neutral (3.0) and rated Unknown.
func AnalyzeFixtureDifficulty(teamID int64, fixtures []fixture.Fixture, nextN int) FixtureOutlook {
	if nextN <= 0 {
		nextN = 5
	}

	upcoming := make([]UpcomingFixture, 0, nextN)
	for _, f := range fixtures {
		if len(upcoming) >= nextN {
			break
		}
		if f.Finished || !f.Involves(teamID) {
			continue
		}

		if f.TeamH == teamID {
			upcoming = append(upcoming, UpcomingFixture{
				Opponent:   opponentName(f.TeamAName),
				Home:       true,
				Difficulty: f.TeamHDifficulty,
			})
		} else {
			upcoming = append(upcoming, UpcomingFixture{
				Opponent:   opponentName(f.TeamHName),
				Home:       false,
				Difficulty: f.TeamADifficulty,
			})
		}
	}

	if len(upcoming) == 0 {
		return FixtureOutlook{
			AvgDifficulty: 3.0,
			Fixtures:      []UpcomingFixture{},
			Rating:        FixtureRatingUnknown,
		}
	}

	sum := 0
	for _, f := range upcoming {
		sum += f.Difficulty
	}
	avg := float64(sum) / float64(len(upcoming))

	rating := FixtureRatingHard
	switch {
	case avg < 2.5:
		rating = FixtureRatingEasy
	case avg < 3.5:
		rating = FixtureRatingModerate
	}

	return FixtureOutlook{
		AvgDifficulty: round2(avg),
		Fixtures:      upcoming,
		Rating:        rating,
	}
}

// FormReport compares a player's form to the average of their position.
type FormReport struct {
	Form              float64 `json:"form"`
	Status            string  `json:"form_status"`
	FormVsPositionAvg float64 `json:"form_vs_position_avg"`
	PointsPerGame     float64 `json:"points_per_game"`
	PPGVsPositionAvg  float64 `json:"ppg_vs_position_avg"`
}

func ScorePlayerForm(p player.Player, all []player.Player) FormReport {
	var formSum, ppgSum float64
	var count int
	for _, other := range all {
		if other.Position != p.Position {
			continue
		}
		formSum += other.Form
		ppgSum += other.PointsPerGame
		count++
	}

	var avgForm, avgPPG float64
	if count > 0 {
		avgForm = formSum / float64(count)
		avgPPG = ppgSum / float64(count)
	}

	status := RatingPoor
	switch {
	case p.Form >= 6.0:
		status = RatingExcellent
	case p.Form >= 4.0:
		status = RatingGood
	case p.Form >= 2.0:
		status = RatingAverage
	}

	return FormReport{
		Form:              p.Form,
		Status:            status,
		FormVsPositionAvg: round2(p.Form - avgForm),
		PointsPerGame:     p.PointsPerGame,
		PPGVsPositionAvg:  round2(p.PointsPerGame - avgPPG),
	}
}

// ValueReport scores a player's points per million.
type ValueReport struct {
	Cost             float64 `json:"cost"`
	TotalPoints      int     `json:"total_points"`
	PointsPerMillion float64 `json:"points_per_million"`
	Rating           string  `json:"value_rating"`
}

func ScorePlayerValue(p player.Player) ValueReport {
	cost := p.CostMillions()

	value := 0.0
	if cost != 0 {
		value = float64(p.TotalPoints) / cost
	}

	rating := RatingPoor
	switch {
	case value >= 25:
		rating = RatingExcellent
	case value >= 20:
		rating = RatingGood
	case value >= 15:
		rating = RatingAverage
	}

	return ValueReport{
		Cost:             cost,
		TotalPoints:      p.TotalPoints,
		PointsPerMillion: round2(value),
		Rating:           rating,
	}
}

// Underperformer is a squad player with at least one concern.
type Underperformer struct {
	Player  player.Player `json:"player"`
	Reasons []string      `json:"reasons"`
}

// FindUnderperformers collects squad players with poor form, an
// unavailability status, or a playing-chance doubt. Reason order is fixed:
// form first, then status, then chance of playing.
func FindUnderperformers(squad []player.Player, formThreshold float64) []Underperformer {
	out := make([]Underperformer, 0, len(squad))
	for _, p := range squad {
		var reasons []string

		if p.Form < formThreshold {
			reasons = append(reasons, "Poor form ("+strconv.FormatFloat(p.Form, 'f', 1, 64)+")")
		}

		switch p.Status {
		case player.StatusInjured:
			reasons = append(reasons, "Injured")
		case player.StatusSuspended:
			reasons = append(reasons, "Suspended")
		case player.StatusUnavailable:
			reasons = append(reasons, "Unavailable")
		}

		if p.ChanceOfPlayingNextRound != nil && *p.ChanceOfPlayingNextRound < 75 {
			reasons = append(reasons, "Injury doubt")
		}

		if len(reasons) > 0 {
			out = append(out, Underperformer{Player: p, Reasons: reasons})
		}
	}
	return out
}

// TopPerformersByPosition ranks available players of one position within a
// cost cap by form x points-per-game.
func TopPerformersByPosition(all []player.Player, position player.Position, maxCost float64, limit int) []player.Player {
	if limit <= 0 {
		limit = 10
	}

	candidates := make([]player.Player, 0, 64)
	for _, p := range all {
		if p.Position != position {
			continue
		}
		if p.CostMillions() > maxCost {
			continue
		}
		if !p.IsAvailable() {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Form*candidates[i].PointsPerGame > candidates[j].Form*candidates[j].PointsPerGame
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func opponentName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
