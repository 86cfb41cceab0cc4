package player

// Position represents the four FPL position categories.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
	PositionUnknown    Position = "UNK"
)

// elementTypes maps the provider's numeric element_type to a position.
var elementTypes = map[int]Position{
	1: PositionGoalkeeper,
	2: PositionDefender,
	3: PositionMidfielder,
	4: PositionForward,
}

func PositionFromElementType(elementType int) Position {
	if p, ok := elementTypes[elementType]; ok {
		return p
	}
	return PositionUnknown
}

// Availability status codes as published by the provider.
const (
	StatusAvailable   = "a"
	StatusDoubtful    = "d"
	StatusInjured     = "i"
	StatusSuspended   = "s"
	StatusUnavailable = "u"
)

// Player is one footballer from the global player pool. Monetary fields
// (NowCost) are integer tenths of a million, as the provider reports them.
type Player struct {
	ID                       int64
	Code                     int64
	FirstName                string
	SecondName               string
	WebName                  string
	TeamID                   int64
	TeamName                 string
	Position                 Position
	NowCost                  int
	TotalPoints              int
	PointsPerGame            float64
	Form                     float64
	SelectedByPercent        float64
	Status                   string
	News                     string
	ChanceOfPlayingNextRound *int
	TransfersInEvent         int
	TransfersOutEvent        int
	Minutes                  int
	GoalsScored              int
	Assists                  int
	CleanSheets              int
}

func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.SecondName
	}
	return p.FirstName + " " + p.SecondName
}

// CostMillions converts NowCost from integer tenths to millions.
func (p Player) CostMillions() float64 {
	return float64(p.NowCost) / 10.0
}

func (p Player) IsAvailable() bool {
	return p.Status == StatusAvailable
}

// IsOut reports whether the player cannot feature at all (injured,
// suspended, or otherwise unavailable). Doubtful players are not out.
func (p Player) IsOut() bool {
	switch p.Status {
	case StatusInjured, StatusSuspended, StatusUnavailable:
		return true
	default:
		return false
	}
}

// RoundScore is one finished gameweek from a player's season history.
// Value is in integer tenths of a million at the time of the round.
type RoundScore struct {
	Event        int
	OpponentTeam int64
	WasHome      bool
	Points       int
	Minutes      int
	Goals        int
	Assists      int
	Value        int
}

// ComingFixture is one upcoming match from a player's element summary.
type ComingFixture struct {
	ID         int64
	Event      int
	TeamH      int64
	TeamA      int64
	IsHome     bool
	Difficulty int
}

// Summary is the per-player detail view: recent rounds plus the schedule.
type Summary struct {
	History  []RoundScore
	Fixtures []ComingFixture
}
