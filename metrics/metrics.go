// Package metrics provides Prometheus metrics for trend acquisition and hashtag synthesis.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageDuration measures how long each acquisition stage took.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trendtags",
			Name:      "acquisition_stage_duration_seconds",
			Help:      "Duration of acquisition stages in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage", "status"},
	)

	// AcquisitionsTotal counts finished acquisitions by outcome.
	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendtags",
			Name:      "acquisitions_total",
			Help:      "Total number of acquisitions by outcome",
		},
		[]string{"outcome"},
	)

	// RecordsExtracted observes how many rows survived extraction.
	RecordsExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trendtags",
			Name:      "records_extracted",
			Help:      "Distribution of trend records extracted per acquisition",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// HashtagsEmitted observes how many hashtags a synthesis produced.
	HashtagsEmitted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trendtags",
			Name:      "hashtags_emitted",
			Help:      "Distribution of hashtags returned per request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50},
		},
		[]string{"mode"},
	)

	// ActiveSessions tracks browser sessions currently open.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "trendtags",
			Name:      "active_browser_sessions",
			Help:      "Number of browser sessions currently open",
		},
	)
)

// RecordStage records one stage run.
func RecordStage(stage, status string, seconds float64) {
	StageDuration.WithLabelValues(stage, status).Observe(seconds)
}

// RecordAcquisition records the terminal outcome of an acquisition.
func RecordAcquisition(outcome string, records int) {
	AcquisitionsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		RecordsExtracted.Observe(float64(records))
	}
}

// RecordHashtags records one synthesis result.
func RecordHashtags(mode string, count int) {
	HashtagsEmitted.WithLabelValues(mode).Observe(float64(count))
}
