package matchups

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// flagHeader is matched as a substring so trailing notes in the header are tolerated.
const (
	flagHeader    = "Can be used in the model"
	featureHeader = "Feature"
)

// EssentialColumns are kept by the prepare stage whatever the metadata says.
var EssentialColumns = []string{ColGame, ColSeason, ColHomeTeam, ColAwayTeam} //nolint:gochecknoglobals // fixed schema

// ReadAllowedColumns returns the feature names flagged as usable in the first
// sheet of the metadata workbook, followed by any essential column the sheet
// does not list.
func ReadAllowedColumns(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyMetadata
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read metadata sheet %s: %w", sheets[0], err)
	}
	return AllowedColumns(rows)
}

// AllowedColumns applies the metadata rule to a sheet given as rows of cells.
func AllowedColumns(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMetadata
	}
	header := rows[0]
	flagCol, featureCol := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if flagCol < 0 && strings.Contains(h, flagHeader) {
			flagCol = i
		}
		if featureCol < 0 && h == featureHeader {
			featureCol = i
		}
	}
	if flagCol < 0 {
		return nil, ErrNoFlagColumn
	}
	if featureCol < 0 {
		return nil, ErrNoFeatureColumn
	}

	var allowed []string
	for _, row := range rows[1:] {
		if cell(row, flagCol) == "" {
			continue
		}
		if name := cell(row, featureCol); name != "" {
			allowed = append(allowed, name)
		}
	}
	for _, c := range EssentialColumns {
		if !slices.Contains(allowed, c) {
			allowed = append(allowed, c)
		}
	}
	return allowed, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
