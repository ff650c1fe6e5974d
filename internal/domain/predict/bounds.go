package predict

import (
	"fmt"

	"github.com/okian/lineup/internal/domain/model"
)

// UnknownMarker marks the slot to be predicted in an entered lineup.
const UnknownMarker = "?"

// Bounds restricts candidates to names strictly between Lower and Upper.
// An empty side is unbounded.
type Bounds struct {
	Lower string
	Upper string
}

// Allows reports whether name lies strictly inside the bounds.
func (b Bounds) Allows(name string) bool {
	if b.Lower != "" && name <= b.Lower {
		return false
	}
	if b.Upper != "" && name >= b.Upper {
		return false
	}
	return true
}

// Slot is an alphabetically ordered lineup with exactly one unknown position.
type Slot struct {
	Position int // zero-based index of the unknown slot
	Known    [model.KnownPlayers]string
	Bounds   Bounds
}

// ParseSlot locates the single unknown marker in lineup and derives the
// bounds from its neighbours.
func ParseSlot(lineup []string) (Slot, error) {
	if len(lineup) != model.LineupSize {
		return Slot{}, fmt.Errorf("%w: got %d names", ErrUnknownSlot, len(lineup))
	}
	pos := -1
	for i, name := range lineup {
		if name != UnknownMarker {
			continue
		}
		if pos >= 0 {
			return Slot{}, fmt.Errorf("%w: found more than one %q", ErrUnknownSlot, UnknownMarker)
		}
		pos = i
	}
	if pos < 0 {
		return Slot{}, fmt.Errorf("%w: no %q entered", ErrUnknownSlot, UnknownMarker)
	}

	s := Slot{Position: pos}
	k := 0
	for i, name := range lineup {
		if i != pos {
			s.Known[k] = name
			k++
		}
	}
	if pos > 0 {
		s.Bounds.Lower = lineup[pos-1]
	}
	if pos < model.LineupSize-1 {
		s.Bounds.Upper = lineup[pos+1]
	}
	return s, nil
}

// FilterCandidates keeps roster names inside b that are not already known,
// preserving roster order.
func FilterCandidates(roster []string, known []string, b Bounds) []string {
	skip := make(map[string]struct{}, len(known))
	for _, k := range known {
		skip[k] = struct{}{}
	}
	out := make([]string, 0, len(roster))
	for _, name := range roster {
		if _, ok := skip[name]; ok {
			continue
		}
		if b.Allows(name) {
			out = append(out, name)
		}
	}
	return out
}
