package fixture

import (
	"sort"
	"time"
)

// Fixture is one scheduled or played match. Event and KickoffAt are nil for
// unscheduled fixtures; scores are nil until the match starts.
type Fixture struct {
	ID                  int64
	Event               *int
	KickoffAt           *time.Time
	TeamH               int64
	TeamA               int64
	TeamHName           string
	TeamAName           string
	TeamHDifficulty     int
	TeamADifficulty     int
	TeamHScore          *int
	TeamAScore          *int
	Started             bool
	Finished            bool
	FinishedProvisional bool
}

// Involves reports whether teamID plays in this fixture.
func (f Fixture) Involves(teamID int64) bool {
	return f.TeamH == teamID || f.TeamA == teamID
}

// DifficultyFor returns the difficulty rating (1..5) from teamID's side,
// or 0 when the team is not involved.
func (f Fixture) DifficultyFor(teamID int64) int {
	switch teamID {
	case f.TeamH:
		return f.TeamHDifficulty
	case f.TeamA:
		return f.TeamADifficulty
	}
	return 0
}

// OpponentOf returns the opposing team id and whether teamID is at home.
func (f Fixture) OpponentOf(teamID int64) (int64, bool) {
	if teamID == f.TeamH {
		return f.TeamA, true
	}
	return f.TeamH, false
}

// SortChronological orders fixtures by kickoff time ascending with nil
// kickoffs last; fixture id breaks ties so the order is deterministic
// regardless of provider ordering.
func SortChronological(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		a, b := fixtures[i], fixtures[j]
		switch {
		case a.KickoffAt == nil && b.KickoffAt == nil:
			return a.ID < b.ID
		case a.KickoffAt == nil:
			return false
		case b.KickoffAt == nil:
			return true
		case a.KickoffAt.Equal(*b.KickoffAt):
			return a.ID < b.ID
		default:
			return a.KickoffAt.Before(*b.KickoffAt)
		}
	})
}

// Team is one of the twenty Premier League clubs.
type Team struct {
	ID           int64
	Code         int64
	Name         string
	ShortName    string
	Strength     int
	StrengthHome int
	StrengthAway int
	Position     int
	Played       int
	Win          int
	Draw         int
	Loss         int
	Points       int
}
