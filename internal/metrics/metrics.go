// internal/metrics/metrics.go

// Package metrics declares the Prometheus collectors the scan runner
// updates. Everything is registered on the default registry at init;
// the status server exposes it on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "commentwatch"

// Label values for ScansTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Label values for CommentsRejected.
const (
	ReasonSpam    = "spam"
	ReasonNoMatch = "no_match"
)

var (
	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Completed scan runs by result.",
	}, []string{"result"})

	CommentsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_fetched_total",
		Help:      "Comments fetched from the YouTube API.",
	})

	CommentsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_rejected_total",
		Help:      "Comments rejected before storage, by reason.",
	}, []string{"reason"})

	EventsAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "New events appended to the store.",
	})

	StoreEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_events",
		Help:      "Events currently in the store.",
	})

	LastScanTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_scan_timestamp_seconds",
		Help:      "Unix time of the last completed scan.",
	})

	ScanDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Wall time of scan runs.",
	})
)

func init() {
	prometheus.MustRegister(
		ScansTotal,
		CommentsFetched,
		CommentsRejected,
		EventsAppended,
		StoreEvents,
		LastScanTimestamp,
		ScanDuration,
	)
}
