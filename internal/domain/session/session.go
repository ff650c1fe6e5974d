// Package session implements the interactive prediction dialogue as a pure
// state machine. It consumes one line of input at a time and never touches
// the terminal.
package session

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/predict"
)

// State is a step of the dialogue.
type State int

// Dialogue states in order.
const (
	AwaitHomeTeam State = iota
	AwaitAwayTeam
	AwaitSeason
	AwaitMinute
	AwaitLineup
	AwaitOpponents
	Ready
	Failed
)

// Minute range accepted for the starting minute.
const (
	minMinute = 0
	maxMinute = 48
)

func (s State) String() string {
	switch s {
	case AwaitHomeTeam:
		return "await_home_team"
	case AwaitAwayTeam:
		return "await_away_team"
	case AwaitSeason:
		return "await_season"
	case AwaitMinute:
		return "await_minute"
	case AwaitLineup:
		return "await_lineup"
	case AwaitOpponents:
		return "await_opponents"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Catalog answers the roster questions the dialogue asks.
type Catalog interface {
	Teams() []string
	Seasons() []int
	Roster(team string, season int) []string
}

// Session collects a prediction request one answer at a time.
type Session struct {
	catalog Catalog
	state   State
	err     error

	homeTeam   string
	awayTeam   string
	season     int
	minute     int
	homeRoster []string
	awayRoster []string
	lineup     []string
	slot       predict.Slot
	opponents  []string
	candidates []string
}

// New starts a session in AwaitHomeTeam.
func New(catalog Catalog) *Session {
	return &Session{catalog: catalog, state: AwaitHomeTeam}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Err returns the reason a session moved to Failed.
func (s *Session) Err() error { return s.err }

// Intro lists the teams and seasons that can be entered.
func (s *Session) Intro() []string {
	seasons := make([]string, 0, len(s.catalog.Seasons()))
	for _, v := range s.catalog.Seasons() {
		seasons = append(seasons, strconv.Itoa(v))
	}
	return []string{
		"Available teams: " + strings.Join(s.catalog.Teams(), ", "),
		"Available seasons: " + strings.Join(seasons, ", "),
	}
}

// Prompt returns the question for the current state, or "" when no input is
// expected.
func (s *Session) Prompt() string {
	switch s.state {
	case AwaitHomeTeam:
		return "Enter home team (e.g., LAL): "
	case AwaitAwayTeam:
		return "Enter away team (e.g., PHO): "
	case AwaitSeason:
		return "Enter season (e.g., 2007): "
	case AwaitMinute:
		return "Enter game minute (0-48): "
	case AwaitLineup:
		return fmt.Sprintf("Player %d: ", len(s.lineup)+1)
	case AwaitOpponents:
		return fmt.Sprintf("Opposing Player %d: ", len(s.opponents)+1)
	default:
		return ""
	}
}

// Submit feeds one line of input and returns the notices to show. Malformed
// input never fails the session: defaults apply or the prompt repeats.
func (s *Session) Submit(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	switch s.state {
	case AwaitHomeTeam:
		s.homeTeam = strings.ToUpper(line)
		s.state = AwaitAwayTeam
		return s.checkTeam(s.homeTeam), nil
	case AwaitAwayTeam:
		s.awayTeam = strings.ToUpper(line)
		s.state = AwaitSeason
		return s.checkTeam(s.awayTeam), nil
	case AwaitSeason:
		return s.submitSeason(line), nil
	case AwaitMinute:
		return s.submitMinute(line), nil
	case AwaitLineup:
		return s.submitLineup(line), nil
	case AwaitOpponents:
		return s.submitOpponent(line), nil
	default:
		return nil, ErrSessionFinished
	}
}

func (s *Session) checkTeam(team string) []string {
	if slices.Contains(s.catalog.Teams(), team) {
		return nil
	}
	return []string{fmt.Sprintf("Warning: Team %s not found in data", team)}
}

func (s *Session) submitSeason(line string) []string {
	s.state = AwaitMinute
	latest := latestSeason(s.catalog.Seasons())
	v, err := strconv.Atoi(line)
	if err != nil {
		s.season = latest
		return []string{"Invalid season. Using most recent season as default"}
	}
	if !slices.Contains(s.catalog.Seasons(), v) {
		s.season = latest
		return []string{fmt.Sprintf("Warning: Season %d not found in data. Using most recent season.", v)}
	}
	s.season = v
	return nil
}

func (s *Session) submitMinute(line string) []string {
	var notes []string
	v, err := strconv.Atoi(line)
	switch {
	case err != nil:
		v = minMinute
		notes = append(notes, "Invalid input, using 0 as default")
	case v < minMinute || v > maxMinute:
		v = minMinute
		notes = append(notes, "Invalid minute, using 0 as default")
	}
	s.minute = v

	s.homeRoster = s.catalog.Roster(s.homeTeam, s.season)
	if len(s.homeRoster) == 0 {
		return append(notes, s.fail(fmt.Errorf("%w: %s in %d", ErrEmptyRoster, s.homeTeam, s.season)))
	}
	s.state = AwaitLineup
	return append(notes,
		fmt.Sprintf("Players for %s in %d season: %s", s.homeTeam, s.season, strings.Join(s.homeRoster, ", ")),
		"Enter the lineup in alphabetical order (enter '?' for the unknown player position):",
	)
}

func (s *Session) submitLineup(line string) []string {
	s.lineup = append(s.lineup, line)
	if len(s.lineup) < model.LineupSize {
		return nil
	}

	slot, err := predict.ParseSlot(s.lineup)
	if err != nil {
		return []string{s.fail(err)}
	}
	s.slot = slot

	notes := []string{
		"Selected players: " + strings.Join(slot.Known[:], ", "),
		fmt.Sprintf("Predicting player for position %d", slot.Position+1),
	}
	if slot.Bounds.Lower != "" {
		notes = append(notes, "Player name must alphabetically come after: "+slot.Bounds.Lower)
	}
	if slot.Bounds.Upper != "" {
		notes = append(notes, "Player name must alphabetically come before: "+slot.Bounds.Upper)
	}

	s.awayRoster = s.catalog.Roster(s.awayTeam, s.season)
	if len(s.awayRoster) == 0 {
		return append(notes, s.fail(fmt.Errorf("%w: %s in %d", ErrEmptyRoster, s.awayTeam, s.season)))
	}
	s.state = AwaitOpponents
	return append(notes,
		fmt.Sprintf("Players for %s in %d season: %s", s.awayTeam, s.season, strings.Join(s.awayRoster, ", ")),
		fmt.Sprintf("Please select the 5 players from %s in alphabetical order:", s.awayTeam),
	)
}

func (s *Session) submitOpponent(line string) []string {
	if !slices.Contains(s.awayRoster, line) {
		return []string{fmt.Sprintf("Player '%s' not found in %s roster for %d. Try again.", line, s.awayTeam, s.season)}
	}
	s.opponents = append(s.opponents, line)
	if len(s.opponents) < model.LineupSize {
		return nil
	}

	s.candidates = predict.FilterCandidates(s.homeRoster, s.slot.Known[:], s.slot.Bounds)
	if len(s.candidates) == 0 {
		lo, hi := s.slot.Bounds.Lower, s.slot.Bounds.Upper
		if lo == "" {
			lo = "start"
		}
		if hi == "" {
			hi = "end"
		}
		return []string{s.fail(fmt.Errorf("%w between %s and %s", ErrNoCandidates, lo, hi))}
	}
	s.state = Ready

	preview := s.candidates[:min(5, len(s.candidates))]
	more := ""
	if len(s.candidates) > len(preview) {
		more = " ..."
	}
	return []string{fmt.Sprintf("Filtered %d candidates that match alphabetical constraints: %s%s",
		len(s.candidates), strings.Join(preview, ", "), more)}
}

func (s *Session) fail(err error) string {
	s.state = Failed
	s.err = err
	return "Error: " + err.Error()
}

// Request returns the collected prediction request once the session is Ready.
func (s *Session) Request() (predict.Request, bool) {
	if s.state != Ready {
		return predict.Request{}, false
	}
	return predict.Request{
		Season:      s.season,
		StartingMin: s.minute,
		HomeTeam:    s.homeTeam,
		AwayTeam:    s.awayTeam,
		Players:     s.slot.Known,
		Opponents:   append([]string(nil), s.opponents...),
		Candidates:  append([]string(nil), s.candidates...),
	}, true
}

// Slot returns the parsed lineup slot. Valid from AwaitOpponents on.
func (s *Session) Slot() predict.Slot { return s.slot }

func latestSeason(seasons []int) int {
	if len(seasons) == 0 {
		return 0
	}
	return slices.Max(seasons)
}
