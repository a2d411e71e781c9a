// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_step_validations_total",
			Help: "Total number of step validations by outcome",
		},
		[]string{"step", "outcome"},
	)

	FieldErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_field_errors_total",
			Help: "Total number of field validation errors reported",
		},
		[]string{"field"},
	)

	SubmissionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submission_attempts_total",
			Help: "Total number of webhook POST attempts by status class",
		},
		[]string{"status_class"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of submissions by final outcome",
		},
		[]string{"outcome", "error_code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "Duration of a whole submission including retries",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	SnapshotWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_snapshot_writes_total",
			Help: "Total number of draft snapshot writes by backend and result",
		},
		[]string{"backend", "result"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_submissions_in_flight",
			Help: "Number of submissions currently in progress",
		},
	)
)

// StatusClass buckets an HTTP status for labelling; 0 means no response.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "network"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
