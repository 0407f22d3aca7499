package service

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockprep_submissions_total",
			Help: "Graded submissions by test type and outcome",
		},
		[]string{"test_type", "outcome"},
	)

	submissionScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mockprep_submission_score",
			Help:    "Scores of persisted submissions",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"test_type"},
	)

	mediaStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mockprep_media_step_duration_seconds",
			Help:    "Duration of transcription and video analysis calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, submissionScore, mediaStepDuration)
}
