package matchups

import (
	"sort"

	"github.com/okian/lineup/internal/domain/model"
)

type rosterKey struct {
	team   string
	season int
}

// Roster indexes who played in each team's home lineups per season.
type Roster struct {
	teams   []string
	seasons []int
	players map[rosterKey][]string
}

// NewRoster builds the index from the matchup table.
func NewRoster(rows []model.Matchup) *Roster {
	teams := map[string]struct{}{}
	seasons := map[int]struct{}{}
	sets := map[rosterKey]map[string]struct{}{}

	for _, r := range rows {
		if r.HomeTeam != "" {
			teams[r.HomeTeam] = struct{}{}
		}
		seasons[r.Season] = struct{}{}
		k := rosterKey{team: r.HomeTeam, season: r.Season}
		set, ok := sets[k]
		if !ok {
			set = map[string]struct{}{}
			sets[k] = set
		}
		for _, p := range r.HomePlayers() {
			set[p] = struct{}{}
		}
	}

	ro := &Roster{players: make(map[rosterKey][]string, len(sets))}
	for t := range teams {
		ro.teams = append(ro.teams, t)
	}
	sort.Strings(ro.teams)
	for s := range seasons {
		ro.seasons = append(ro.seasons, s)
	}
	sort.Ints(ro.seasons)
	for k, set := range sets {
		names := make([]string, 0, len(set))
		for p := range set {
			names = append(names, p)
		}
		sort.Strings(names)
		ro.players[k] = names
	}
	return ro
}

// Teams returns every home team, sorted.
func (r *Roster) Teams() []string { return append([]string(nil), r.teams...) }

// Seasons returns every season present, ascending.
func (r *Roster) Seasons() []int { return append([]int(nil), r.seasons...) }

// Roster returns the sorted players seen in team's home lineups in season.
func (r *Roster) Roster(team string, season int) []string {
	return append([]string(nil), r.players[rosterKey{team: team, season: season}]...)
}
