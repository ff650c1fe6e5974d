package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/lineup/internal/adapters/matchups"
	"github.com/okian/lineup/internal/adapters/repository"
	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/internal/domain/predict"
	"github.com/okian/lineup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var homeRoster = []string{"Ariza", "Beverley", "Capela", "Harden", "Howard", "Jones", "Terry"}

// writeSeason writes a processed file whose home lineups rotate through the roster.
func writeSeason(t *testing.T, dir string, season, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("game,season,starting_min,home_team,away_team,home_0,home_1,home_2,home_3,home_4,away_0,away_1,away_2,away_3,away_4\n")
	for i := 0; i < rows; i++ {
		var home []string
		for j := 0; j < 5; j++ {
			home = append(home, homeRoster[(i+j)%len(homeRoster)])
		}
		fmt.Fprintf(&b, "%d0101HOU%d,%d,%d,HOU,LAC,%s,Griffin,Jordan,Paul,Redick,Rivers\n",
			season, i/4, season, (i*6)%48, strings.Join(home, ","))
	}
	if err := os.WriteFile(filepath.Join(dir, matchups.ProcessedFile(season)), []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
}

func newService(dataDir, modelPath string) *service.Service {
	cfg := config.New()
	cfg.DataDir = dataDir
	cfg.ModelPath = modelPath
	cfg.FirstSeason, cfg.LastSeason = 2014, 2015
	opts := service.OptionsFromConfig(cfg, logger.Nop())
	p := boosting.DefaultParams()
	p.Estimators = 10
	p.MinSamplesSplit = 4
	return service.New(append(opts, service.WithBoostingParams(p), service.WithNoiseStdDev(0))...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_TrainAndPredict(t *testing.T) {
	Convey("Given processed data for one season", t, func() {
		dataDir := t.TempDir()
		modelPath := filepath.Join(t.TempDir(), "bundle.gob")
		writeSeason(t, dataDir, 2015, 12)
		svc := newService(dataDir, modelPath)
		ctx := context.Background()

		Convey("When training", func() {
			sum, err := svc.Train(ctx)

			Convey("Then examples should be built for every complete row", func() {
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 12)
				// 7 home + 5 away players rated; pool per row = 12 - 5
				So(sum.RatedPlayers, ShouldEqual, 12)
				So(sum.Examples, ShouldEqual, 12*5*3)
				So(sum.SkippedRows, ShouldEqual, 0)
				So(sum.RunID, ShouldNotBeBlank)
				So(len(sum.Report.Importances), ShouldEqual, 14)
			})

			Convey("Then the bundle should be loadable and rank candidates", func() {
				So(err, ShouldBeNil)
				p, bundle, err := svc.LoadPredictor(ctx)
				So(err, ShouldBeNil)
				So(bundle.Meta.RunID, ShouldEqual, sum.RunID)

				catalog, err := svc.Catalog(ctx)
				So(err, ShouldBeNil)
				So(catalog.Teams(), ShouldResemble, []string{"HOU"})
				So(catalog.Roster("HOU", 2015), ShouldResemble, homeRoster)

				ranking, err := p.Rank(ctx, predict.Request{
					Season:     2015,
					HomeTeam:   "HOU",
					AwayTeam:   "LAC",
					Players:    [4]string{"Ariza", "Beverley", "Jones", "Terry"},
					Opponents:  []string{"Griffin", "Jordan", "Paul", "Redick", "Rivers"},
					Candidates: []string{"Capela", "Harden", "Howard", "Stranger"},
				})
				So(err, ShouldBeNil)
				So(len(ranking.Recommendations), ShouldEqual, 3)
				So(ranking.Skipped, ShouldResemble, []string{"Stranger"})
			})
		})
	})

	Convey("Given no data files", t, func() {
		svc := newService(t.TempDir(), filepath.Join(t.TempDir(), "bundle.gob"))
		_, err := svc.Train(context.Background())

		Convey("Then training should fail with ErrNoData", func() {
			So(errors.Is(err, matchups.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given no trained bundle", t, func() {
		svc := newService(t.TempDir(), filepath.Join(t.TempDir(), "bundle.gob"))
		_, _, err := svc.LoadPredictor(context.Background())

		Convey("Then loading should fail with ErrNotFound", func() {
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Prepare(t *testing.T) {
	Convey("Given raw files and a metadata workbook", t, func() {
		rawDir := t.TempDir()
		dataDir := filepath.Join(t.TempDir(), "processed")
		metaPath := filepath.Join(rawDir, "Matchup-metadata.xlsx")

		f := excelize.NewFile()
		So(f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Feature", "Can be used in the model"}), ShouldBeNil)
		So(f.SetSheetRow("Sheet1", "A2", &[]interface{}{"home_0", "Y"}), ShouldBeNil)
		So(f.SaveAs(metaPath), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		raw := "game,season,pts,home_team,away_team,home_0\ng1,2015,101,HOU,LAC,Harden\n"
		So(os.WriteFile(filepath.Join(rawDir, matchups.RawFile(2015)), []byte(raw), 0o600), ShouldBeNil)

		cfg := config.New()
		cfg.RawDir, cfg.DataDir, cfg.MetadataPath = rawDir, dataDir, metaPath
		cfg.ModelPath = filepath.Join(t.TempDir(), "bundle.gob")
		svc := service.New(service.OptionsFromConfig(cfg, logger.Nop())...)

		rep, err := svc.Prepare(context.Background())

		Convey("Then the processed file should hold only allowed columns", func() {
			So(err, ShouldBeNil)
			So(rep.Files, ShouldEqual, 1)
			So(len(rep.Missing), ShouldEqual, 8)
			data, readErr := os.ReadFile(filepath.Join(dataDir, matchups.ProcessedFile(2015)))
			So(readErr, ShouldBeNil)
			So(string(data), ShouldStartWith, "home_0,game,season,home_team,away_team\n")
		})
	})

	Convey("Given a metadata workbook without the flag column", t, func() {
		dir := t.TempDir()
		metaPath := filepath.Join(dir, "meta.xlsx")
		f := excelize.NewFile()
		So(f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Feature", "Notes"}), ShouldBeNil)
		So(f.SaveAs(metaPath), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		svc := service.New(service.WithMetadataPath(metaPath), service.WithLogger(logger.Nop()))
		_, err := svc.Prepare(context.Background())

		Convey("Then prepare should fail", func() {
			So(errors.Is(err, matchups.ErrNoFlagColumn), ShouldBeTrue)
		})
	})
}
