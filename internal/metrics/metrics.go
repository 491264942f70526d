// Package metrics registers the Prometheus collectors for the holiday
// refresh pipeline. Collectors are registered on the default registry;
// main exposes them via promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "holidaytrack"

// RefreshTotal counts cache refresh attempts by outcome.
// Outcomes: "refreshed" (cache replaced), "fresh" (within the staleness
// window, no fetch performed), "error" (refresh aborted).
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_total",
		Help:      "Holiday cache refresh attempts by outcome.",
	},
	[]string{"outcome"},
)

// RemoteFetchDuration observes the wall time of individual calls to the
// upstream calendar API, including failed calls.
var RemoteFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_fetch_duration_seconds",
		Help:      "Duration of upstream holiday API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)
