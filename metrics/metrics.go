// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyses by pipeline (basic, advanced) and
	// outcome (success, error).
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llmstxt_analyses_total",
		Help: "Total number of page analyses by pipeline and status",
	}, []string{"pipeline", "status"})

	// AnalysisDuration observes end-to-end analysis latency per pipeline.
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llmstxt_analysis_duration_seconds",
		Help:    "Duration of page analyses by pipeline",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"pipeline"})

	// DocumentsGenerated counts rendered documents.
	DocumentsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llmstxt_documents_generated_total",
		Help: "Total number of llms.txt documents generated",
	})

	// QualityScore observes the distribution of computed quality scores.
	QualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llmstxt_quality_score",
		Help:    "Distribution of computed content quality scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	// ArchivedDocuments counts documents written to the archive.
	ArchivedDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llmstxt_archived_documents_total",
		Help: "Total number of generated documents written to the archive",
	})
)
