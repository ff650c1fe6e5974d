package rating

import (
	"sort"

	"github.com/okian/lineup/internal/domain/model"
)

// Fallback ratings for identifiers missing from the maps.
const (
	DefaultPlayerRating = 0.5
	DefaultTeamRating   = 0.6
)

// Player rating factor weights.
const (
	baseFloor       = 0.5
	baseSpan        = 0.5
	pairingBoost    = 0.3
	opponentBoost   = 0.2
	homeWinBoost    = 0.3
	teamRatingFloor = 0.4
	teamRatingSpan  = 0.4
)

// Ratings holds the player and team ratings of one training run. The zero
// value answers every query with the defaults.
type Ratings struct {
	players map[string]float64
	teams   map[string]float64
}

// New copies the given maps into an immutable Ratings value.
func New(players, teams map[string]float64) *Ratings {
	r := &Ratings{
		players: make(map[string]float64, len(players)),
		teams:   make(map[string]float64, len(teams)),
	}
	for k, v := range players {
		r.players[k] = v
	}
	for k, v := range teams {
		r.teams[k] = v
	}
	return r
}

// Compute derives player and team ratings from the full matchup table.
func Compute(rows []model.Matchup) *Ratings {
	return &Ratings{
		players: PlayerRatings(rows),
		teams:   TeamRatings(rows),
	}
}

// Player returns the rating of name, or DefaultPlayerRating when unknown.
func (r *Ratings) Player(name string) float64 {
	if v, ok := r.players[name]; ok {
		return v
	}
	return DefaultPlayerRating
}

// Team returns the rating of team, or DefaultTeamRating when unknown.
func (r *Ratings) Team(team string) float64 {
	if v, ok := r.teams[team]; ok {
		return v
	}
	return DefaultTeamRating
}

// Mean returns the average player rating of names, or 0 for an empty slice.
func (r *Ratings) Mean(names []string) float64 {
	if len(names) == 0 {
		return 0
	}
	var sum float64
	for _, n := range names {
		sum += r.Player(n)
	}
	return sum / float64(len(names))
}

// Players returns every rated player in ascending order.
func (r *Ratings) Players() []string {
	out := make([]string, 0, len(r.players))
	for p := range r.players {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// PlayerCount returns the number of rated players.
func (r *Ratings) PlayerCount() int { return len(r.players) }

// TeamRating returns the synthetic rating of a team. It depends on the name
// only, never on results.
func TeamRating(team string) float64 {
	return teamRatingFloor + teamRatingSpan*RandFor(team).Float64()
}

// TeamRatings rates every home and away team in rows.
func TeamRatings(rows []model.Matchup) map[string]float64 {
	out := make(map[string]float64)
	for _, row := range rows {
		for _, team := range []string{row.HomeTeam, row.AwayTeam} {
			if team == "" {
				continue
			}
			if _, ok := out[team]; !ok {
				out[team] = TeamRating(team)
			}
		}
	}
	return out
}

type playerStats struct {
	appearances int
	homeWins    int
	teammates   map[string]int
	opponents   map[string]int
}

// PlayerRatings computes base × pairing × opponent × home-win for every player
// seen in any slot. Ratings are not clamped.
func PlayerRatings(rows []model.Matchup) map[string]float64 {
	stats := make(map[string]*playerStats)
	get := func(p string) *playerStats {
		s, ok := stats[p]
		if !ok {
			s = &playerStats{teammates: map[string]int{}, opponents: map[string]int{}}
			stats[p] = s
		}
		return s
	}

	for _, row := range rows {
		home := row.HomePlayers()
		away := row.AwayPlayers()

		for _, p := range home {
			s := get(p)
			s.appearances++
			if row.HomeWin {
				s.homeWins++
			}
		}
		for _, p := range away {
			get(p).appearances++
		}

		for i, p1 := range home {
			for j, p2 := range home {
				if i != j {
					stats[p1].teammates[p2]++
				}
			}
		}
		for _, hp := range home {
			for _, ap := range away {
				stats[hp].opponents[ap]++
			}
		}
	}

	if len(stats) == 0 {
		return map[string]float64{}
	}

	minCount, maxCount := -1, 0
	for _, s := range stats {
		if s.appearances > maxCount {
			maxCount = s.appearances
		}
		if minCount < 0 || s.appearances < minCount {
			minCount = s.appearances
		}
	}
	countRange := float64(max(1, maxCount-minCount))
	countCeil := float64(max(1, maxCount))

	out := make(map[string]float64, len(stats))
	for p, s := range stats {
		base := baseFloor + baseSpan*float64(s.appearances-minCount)/countRange

		pairing := 1.0
		if len(s.teammates) > 0 {
			pairing += meanCount(s.teammates) / countCeil * pairingBoost
		}

		opponent := 1.0
		if len(s.opponents) > 0 {
			opponent += meanCount(s.opponents) / countCeil * opponentBoost
		}

		homeWin := 1.0 + float64(s.homeWins)/float64(max(1, s.appearances))*homeWinBoost

		out[p] = base * pairing * opponent * homeWin
	}
	return out
}

func meanCount(m map[string]int) float64 {
	var sum int
	for _, v := range m {
		sum += v
	}
	return float64(sum) / float64(len(m))
}
