package manager

// TeamPick is one slot of a manager's 15-player squad for a gameweek.
// SquadPosition 1..11 is the starting eleven, 12..15 the bench.
type TeamPick struct {
	Element       int64
	SquadPosition int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
}

// TeamSummary is a manager's entry overview. Value and Bank are integer
// tenths of a million, matching the provider's encoding.
type TeamSummary struct {
	ID                   int64
	FirstName            string
	LastName             string
	TeamName             string
	Region               string
	StartedEvent         int
	CurrentEvent         int
	SummaryOverallPoints int
	SummaryOverallRank   int
	SummaryEventPoints   int
	SummaryEventRank     int
	EventTransfers       int
	EventTransfersCost   int
	TotalTransfers       int
	Value                int
	Bank                 int
}

func (s TeamSummary) ManagerName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	return s.FirstName + " " + s.LastName
}

// TeamValueMillions converts Value from integer tenths to millions.
func (s TeamSummary) TeamValueMillions() float64 {
	return float64(s.Value) / 10.0
}

// BankMillions converts Bank from integer tenths to millions.
func (s TeamSummary) BankMillions() float64 {
	return float64(s.Bank) / 10.0
}

// PicksHistory is the entry_history block returned with a gameweek's picks.
type PicksHistory struct {
	Event              int
	Points             int
	TotalPoints        int
	Rank               int
	OverallRank        int
	Bank               int
	Value              int
	EventTransfers     int
	EventTransfersCost int
	PointsOnBench      int
}

// GameweekPicks bundles the picks and history for one manager gameweek.
type GameweekPicks struct {
	Event   int
	Picks   []TeamPick
	History PicksHistory
}

// LeagueMembership is one classic or head-to-head league a manager is in.
type LeagueMembership struct {
	ID            int64
	Name          string
	LeagueType    string
	Scoring       string
	EntryRank     int
	EntryLastRank int
	Created       string
}

// Leagues groups a manager's league memberships by kind.
type Leagues struct {
	Classic []LeagueMembership
	H2H     []LeagueMembership
}

// StandingRow is one entry in a classic league table.
type StandingRow struct {
	ID         int64
	EntryID    int64
	EntryName  string
	PlayerName string
	Rank       int
	LastRank   int
	RankSort   int
	EventTotal int
	Total      int
}

// LeagueStandings is one page of a classic league table.
type LeagueStandings struct {
	LeagueID   int64
	LeagueName string
	Page       int
	HasNext    bool
	Results    []StandingRow
}
