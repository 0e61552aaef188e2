package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_scout_fetch_attempts_total",
		Help: "Marketplace fetch attempts per source.",
	}, []string{"source"})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_scout_fetch_failures_total",
		Help: "Transient marketplace fetch failures per source.",
	}, []string{"source"})

	breakerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_scout_breaker_rejections_total",
		Help: "Fetches short-circuited by an open circuit breaker.",
	}, []string{"source"})

	queriesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_scout_queries_skipped_total",
		Help: "Research queries skipped, by reason code.",
	}, []string{"reason"})
)
