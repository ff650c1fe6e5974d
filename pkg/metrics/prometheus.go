// Package metrics provides Prometheus instruments for the lineup pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Example kinds used as label values.
const (
	KindReal      = "real"
	KindAlternate = "alternate"
)

// Data split labels used for fit quality gauges.
const (
	SplitTrain = "train"
	SplitTest  = "test"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	constLabels     prometheus.Labels
	registry        prometheus.Registerer

	// Ingestion
	rowsLoaded   prometheus.Counter
	rowsSkipped  prometheus.Counter
	filesMissing prometheus.Counter

	// Label synthesis
	examplesBuilt *prometheus.CounterVec
	ratedPlayers  prometheus.Gauge

	// Training
	trainingDuration prometheus.Histogram
	fitR2            *prometheus.GaugeVec
	fitRMSE          *prometheus.GaugeVec
	boostingStages   prometheus.Gauge

	// Inference
	predictions       prometheus.Counter
	candidatesSkipped prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Private registry so the dump contains only pipeline metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "lineup",
		subsystem:       "pipeline",
		durationBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "matchup_rows_loaded_total",
		Help:        "Matchup rows read from season files",
	})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "matchup_rows_skipped_total",
		Help:        "Matchup rows without five resolved home players",
	})

	m.filesMissing = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "season_files_missing_total",
		Help:        "Season files that were expected but not found",
	})

	m.examplesBuilt = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			ConstLabels: m.constLabels,
			Name:        "training_examples_total",
			Help:        "Training examples emitted by kind",
		},
		[]string{"kind"},
	)

	m.ratedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "rated_players",
		Help:        "Players with a synthetic rating in the current run",
	})

	m.trainingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "training_duration_seconds",
		Help:        "Wall time spent fitting the regression model",
		Buckets:     m.durationBuckets,
	})

	m.fitR2 = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			ConstLabels: m.constLabels,
			Name:        "fit_r2",
			Help:        "Coefficient of determination of the last fit",
		},
		[]string{"split"},
	)

	m.fitRMSE = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			ConstLabels: m.constLabels,
			Name:        "fit_rmse",
			Help:        "Root mean squared error of the last fit",
		},
		[]string{"split"},
	)

	m.boostingStages = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "boosting_stages",
		Help:        "Number of trees in the fitted ensemble",
	})

	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "candidate_predictions_total",
		Help:        "Candidates scored by the predictor",
	})

	m.candidatesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "candidates_skipped_total",
		Help:        "Candidates dropped because they were not present in training data",
	})
}

// RecordRowsLoaded adds n loaded matchup rows.
func RecordRowsLoaded(n int) {
	globalManager.rowsLoaded.Add(float64(n))
}

// RecordRowSkipped increments the skipped row counter.
func RecordRowSkipped() {
	globalManager.rowsSkipped.Inc()
}

// RecordFileMissing increments the missing season file counter.
func RecordFileMissing() {
	globalManager.filesMissing.Inc()
}

// RecordExample increments the example counter for kind.
func RecordExample(kind string) {
	globalManager.examplesBuilt.WithLabelValues(kind).Inc()
}

// UpdateRatedPlayers sets the number of rated players.
func UpdateRatedPlayers(n int) {
	globalManager.ratedPlayers.Set(float64(n))
}

// RecordTrainingDuration records the fit wall time in seconds.
func RecordTrainingDuration(seconds float64) {
	globalManager.trainingDuration.Observe(seconds)
}

// UpdateFitQuality sets R² and RMSE for a data split.
func UpdateFitQuality(split string, r2, rmse float64) {
	globalManager.fitR2.WithLabelValues(split).Set(r2)
	globalManager.fitRMSE.WithLabelValues(split).Set(rmse)
}

// UpdateBoostingStages sets the ensemble size.
func UpdateBoostingStages(n int) {
	globalManager.boostingStages.Set(float64(n))
}

// RecordPrediction increments the scored candidate counter.
func RecordPrediction() {
	globalManager.predictions.Inc()
}

// RecordCandidateSkipped increments the skipped candidate counter.
func RecordCandidateSkipped() {
	globalManager.candidatesSkipped.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in text exposition format to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
