// Package model contains domain models passed between layers.
package model

// LineupSize is the number of players a team fields at once.
const LineupSize = 5

// KnownPlayers is the number of fixed players in a training example.
const KnownPlayers = LineupSize - 1

// Matchup is one lineup stint: a stretch of game time with a fixed 5-vs-5 configuration.
// Empty strings in Home/Away mark unknown slots.
type Matchup struct {
	Game        string             // game identifier, e.g. "200710300GSW"
	Season      int                // season start year
	StartingMin int                // game minute the stint begins
	HomeTeam    string             // home team code
	AwayTeam    string             // away team code
	Home        [LineupSize]string // home player slots
	Away        [LineupSize]string // away player slots
	HomeWin     bool               // home team won the game; true when the source has no outcome column
}

// HomePlayers returns the resolved home players in slot order.
func (m Matchup) HomePlayers() []string { return resolved(m.Home) }

// AwayPlayers returns the resolved away players in slot order.
func (m Matchup) AwayPlayers() []string { return resolved(m.Away) }

// CompleteHome reports whether all five home slots are filled.
func (m Matchup) CompleteHome() bool { return len(m.HomePlayers()) == LineupSize }

func resolved(slots [LineupSize]string) []string {
	out := make([]string, 0, LineupSize)
	for _, p := range slots {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Example is one supervised row: four fixed home players, a candidate fifth
// player and the synthetic marginal effectiveness of that candidate.
type Example struct {
	Game          string
	HomeTeam      string
	AwayTeam      string
	Season        int
	StartingMin   int
	Players       [KnownPlayers]string
	Candidate     string
	Opponents     []string // up to LineupSize away players
	Effectiveness float64
	Alternate     bool // candidate was sampled rather than observed
}
