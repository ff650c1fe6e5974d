package evalharness

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const lineupSize = 5

// LoadCases reads the test file.
func LoadCases(path string) ([]Case, error) {
	records, cols, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	need := []string{"home_team", "away_team", "season", "starting_min"}
	for i := 0; i < lineupSize; i++ {
		need = append(need, fmt.Sprintf("home_%d", i), fmt.Sprintf("away_%d", i))
	}
	for _, n := range need {
		if _, ok := cols[n]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, n)
		}
	}

	out := make([]Case, 0, len(records))
	for i, rec := range records {
		c := Case{
			Index:       i,
			HomeTeam:    rec[cols["home_team"]],
			AwayTeam:    rec[cols["away_team"]],
			StartingMin: rec[cols["starting_min"]],
		}
		c.Season, err = parseSeason(rec[cols["season"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: season: %w", path, i, err)
		}
		for j := 0; j < lineupSize; j++ {
			c.Home = append(c.Home, rec[cols[fmt.Sprintf("home_%d", j)]])
			c.Away = append(c.Away, rec[cols[fmt.Sprintf("away_%d", j)]])
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadLabels reads the removed_value column of the label file.
func LoadLabels(path string) ([]string, error) {
	records, cols, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, ok := cols["removed_value"]
	if !ok {
		return nil, fmt.Errorf("%s: %w: removed_value", path, ErrMissingColumn)
	}
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec[idx]
	}
	return out, nil
}

// Input renders the answers the predictor prompts for, one per line.
func (c Case) Input() string {
	lines := []string{c.HomeTeam, c.AwayTeam, strconv.Itoa(c.Season), c.StartingMin}
	lines = append(lines, c.Home...)
	lines = append(lines, c.Away...)
	return strings.Join(lines, "\n") + "\n"
}

// ParseRange parses an inclusive "a-b" range.
func ParseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || start < 0 || end < start {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return start, end, nil
}

// ParsePrediction extracts the player named on the result line of output.
func ParsePrediction(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		_, after, found := strings.Cut(line, ResultMarker)
		if !found {
			continue
		}
		name, _, _ := strings.Cut(after, "(")
		name = strings.TrimSpace(name)
		return name, name != ""
	}
	return "", false
}

func parseSeason(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: %w: empty file", path, ErrMissingColumn)
	}
	cols := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		cols[strings.TrimSpace(h)] = i
	}
	width := len(all[0])
	rows := all[1:]
	for i, rec := range rows {
		for len(rec) < width {
			rec = append(rec, "")
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		rows[i] = rec
	}
	return rows, cols, nil
}
