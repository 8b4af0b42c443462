package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoringRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotto_scoring_requests_total",
		Help: "Scoring collaborator calls by outcome",
	}, []string{"outcome"})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lotto_scoring_duration_seconds",
		Help:    "Latency of scoring collaborator calls",
		Buckets: prometheus.DefBuckets,
	})

	catalogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotto_catalog_fetches_total",
		Help: "Upstream catalog fetches by style and result",
	}, []string{"style", "result"})

	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotto_sessions_started_total",
		Help: "Questionnaire sessions created",
	})
)

func observeScoring(d time.Duration, err error) {
	scoringDuration.Observe(d.Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	scoringRequests.WithLabelValues(outcome).Inc()
}

func observeCatalogFetch(style string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	catalogFetches.WithLabelValues(style, result).Inc()
}
