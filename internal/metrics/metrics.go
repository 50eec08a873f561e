package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeInvalid    = "invalid"
	OutcomeTransport  = "transport_error"
	OutcomeFetchError = "fetch_failed"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auctionscout_searches_total",
			Help: "Total number of keyword searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auctionscout_search_duration_seconds",
			Help:    "Duration of keyword searches in seconds, fetch and extraction included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	UpstreamResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auctionscout_upstream_responses_total",
			Help: "Upstream search page responses by status code",
		},
		[]string{"status", "blocker"},
	)

	UpstreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auctionscout_upstream_bytes_total",
			Help: "Total bytes downloaded from the upstream search page",
		},
	)

	ListingsFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auctionscout_listings_found",
			Help:    "Valid listings found per search before truncation",
			Buckets: []float64{0, 1, 10, 20, 40, 60, 100},
		},
	)

	NodesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auctionscout_nodes_skipped_total",
			Help: "Listing nodes dropped during extraction",
		},
	)
)

// RecordUpstream counts one upstream reply.
func RecordUpstream(status int, blocker string, bytes int) {
	UpstreamResponses.WithLabelValues(strconv.Itoa(status), blocker).Inc()
	UpstreamBytesTotal.Add(float64(bytes))
}

// RecordSearch records the outcome and timing of one search. total and
// skipped are only meaningful for successful searches.
func RecordSearch(outcome string, d time.Duration, total, skipped int) {
	SearchesTotal.WithLabelValues(outcome).Inc()
	SearchDuration.Observe(d.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		ListingsFound.Observe(float64(total))
		NodesSkippedTotal.Add(float64(skipped))
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
