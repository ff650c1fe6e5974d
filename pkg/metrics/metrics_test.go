package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegisterer(registry))

			Convey("Then it should register the pipeline instruments", func() {
				So(manager, ShouldNotBeNil)
				manager.rowsLoaded.Add(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithDurationBuckets([]float64{0.1, 1.0}),
				WithRegisterer(registry),
			)

			Convey("Then metric names should carry the namespace", func() {
				manager.rowsSkipped.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_matchup_rows_skipped_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When const labels are supplied", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithConstLabels(prometheus.Labels{"dataset": "nba"}),
				WithRegisterer(registry),
			)

			Convey("Then every sample should carry them", func() {
				manager.ratedPlayers.Set(4)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "lineup_pipeline_rated_players" {
						continue
					}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						if lp.GetName() == "dataset" && lp.GetValue() == "nba" {
							found = true
						}
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are supplied", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithDurationBuckets(nil),
				WithConstLabels(nil),
				WithRegisterer(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "lineup")
				So(manager.subsystem, ShouldEqual, "pipeline")
				So(len(manager.durationBuckets), ShouldBeGreaterThan, 0)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording ingestion metrics", func() {
			before := testutil.ToFloat64(globalManager.rowsLoaded)
			RecordRowsLoaded(10)
			RecordRowSkipped()
			RecordFileMissing()

			Convey("Then counters should move", func() {
				So(testutil.ToFloat64(globalManager.rowsLoaded), ShouldEqual, before+10)
				So(testutil.ToFloat64(globalManager.rowsSkipped), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.filesMissing), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording examples by kind", func() {
			realBefore := testutil.ToFloat64(globalManager.examplesBuilt.WithLabelValues(KindReal))
			RecordExample(KindReal)
			RecordExample(KindAlternate)
			RecordExample(KindAlternate)

			Convey("Then the labelled counters should move independently", func() {
				So(testutil.ToFloat64(globalManager.examplesBuilt.WithLabelValues(KindReal)), ShouldEqual, realBefore+1)
				So(testutil.ToFloat64(globalManager.examplesBuilt.WithLabelValues(KindAlternate)), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When recording fit quality", func() {
			UpdateFitQuality(SplitTest, 0.42, 0.11)
			UpdateBoostingStages(100)
			UpdateRatedPlayers(7)
			RecordTrainingDuration(1.5)

			Convey("Then the gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.fitR2.WithLabelValues(SplitTest)), ShouldEqual, 0.42)
				So(testutil.ToFloat64(globalManager.fitRMSE.WithLabelValues(SplitTest)), ShouldEqual, 0.11)
				So(testutil.ToFloat64(globalManager.boostingStages), ShouldEqual, 100.0)
				So(testutil.ToFloat64(globalManager.ratedPlayers), ShouldEqual, 7.0)
			})
		})

		Convey("When recording inference metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordPrediction()
					RecordCandidateSkipped()
				}, ShouldNotPanic)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a populated registry", t, func() {
		RecordRowsLoaded(1)
		dir := t.TempDir()

		Convey("When dumping to a file", func() {
			path := filepath.Join(dir, "lineup.prom")
			err := WriteTextfile(path)

			Convey("Then the file should contain exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(data), "lineup_pipeline_matchup_rows_loaded_total"), ShouldBeTrue)
			})
		})

		Convey("When the target directory does not exist", func() {
			err := WriteTextfile(filepath.Join(dir, "missing", "lineup.prom"))

			Convey("Then it should wrap ErrWriteFailed", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrWriteFailed), ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		So(GetRegistry(), ShouldNotBeNil)
	})
}
