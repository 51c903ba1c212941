package resolve

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics tracks outbound per-nameserver query outcomes and latency. It
// carries no state of its own; the underlying vectors are package-level
// and shared across every Engine in the process, matching how a process
// normally has one /metrics endpoint regardless of how many Engines it
// constructs.
type metrics struct{}

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iterdns",
		Subsystem: "resolve",
		Name:      "queries_total",
		Help:      "Queries sent to a single nameserver, by outcome.",
	}, []string{"outcome"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "iterdns",
		Subsystem: "resolve",
		Name:      "query_duration_seconds",
		Help:      "Time to handle a single nameserver query, including any nested referral or CNAME lookups it triggers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	inflightQueries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iterdns",
		Subsystem: "resolve",
		Name:      "inflight_queries",
		Help:      "Nameserver queries currently in flight, including nested referral lookups.",
	})
)

func init() {
	prometheus.MustRegister(queriesTotal, queryDuration, inflightQueries)
}

func newMetrics() *metrics {
	return &metrics{}
}

func (m *metrics) observe(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
