package matchups

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// PrepareReport counts what the prepare stage wrote.
type PrepareReport struct {
	Files   int
	Rows    int
	Missing []int // seasons without a raw file
}

// Prepare copies each raw season file in rawDir to outDir keeping only the
// allowed columns, in allowed order. Missing raw files are skipped with a
// warning.
func (s *Store) Prepare(ctx context.Context, rawDir, outDir string, allowed []string) (PrepareReport, error) {
	var rep PrepareReport
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("create %s: %w", outDir, err)
	}
	for _, season := range s.Seasons() {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("prepare matchups: %w", err)
		}
		in := filepath.Join(rawDir, RawFile(season))
		out := filepath.Join(outDir, ProcessedFile(season))

		n, cols, err := filterFile(in, out, allowed)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "raw matchup file not found, skipping", logger.String("path", in))
			metrics.RecordFileMissing()
			rep.Missing = append(rep.Missing, season)
			continue
		}
		if err != nil {
			return rep, err
		}
		rep.Files++
		rep.Rows += n
		s.log.Info(ctx, "prepared matchup file",
			logger.String("path", out),
			logger.Int("rows", n),
			logger.Int("columns", cols),
		)
	}
	return rep, nil
}

func filterFile(in, out string, allowed []string) (rows, cols int, err error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, 0, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", out, err)
	}
	defer func() {
		if cerr := dst.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", out, cerr)
		}
	}()

	rows, cols, err = FilterColumns(src, dst, allowed)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", in, err)
	}
	return rows, cols, nil
}

// FilterColumns streams CSV from r to w keeping the allowed columns that are
// present in the header. It returns the data rows and columns written.
func FilterColumns(r io.Reader, w io.Writer, allowed []string) (rows, cols int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	index := indexColumns(header)

	var keep []int
	var names []string
	for _, a := range allowed {
		if i, ok := index[a]; ok && !slices.Contains(names, a) {
			keep = append(keep, i)
			names = append(names, a)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return 0, 0, err
	}
	out := make([]string, len(keep))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, len(keep), fmt.Errorf("row %d: %w", rows+1, err)
		}
		for j, i := range keep {
			out[j] = ""
			if i < len(rec) {
				out[j] = rec[i]
			}
		}
		if err := cw.Write(out); err != nil {
			return rows, len(keep), err
		}
		rows++
	}
	cw.Flush()
	return rows, len(keep), cw.Error()
}
