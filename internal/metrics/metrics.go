// Package metrics exposes the order book's Prometheus instrumentation:
// match latency, trade throughput, and per-side book depth.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors for a single market's engine instance.
// Construct one per OrderBook/Engine pair and register it against whatever
// prometheus.Registerer the process uses.
type Recorder struct {
	matchLatency    prometheus.Histogram
	tradesProcessed prometheus.Counter
	bookDepth       *prometheus.GaugeVec
}

// NewRecorder builds and registers the collectors for market, labelled so
// multiple markets can share a registry without collisions.
func NewRecorder(reg prometheus.Registerer, market string) *Recorder {
	r := &Recorder{
		matchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "matchbook",
			Subsystem:   "engine",
			Name:        "match_latency_seconds",
			Help:        "Time spent processing a single engine message end to end.",
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
			ConstLabels: prometheus.Labels{"market": market},
		}),
		tradesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "matchbook",
			Subsystem:   "engine",
			Name:        "trades_processed_total",
			Help:        "Number of trade records emitted by the matching core.",
			ConstLabels: prometheus.Labels{"market": market},
		}),
		bookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "matchbook",
			Subsystem:   "engine",
			Name:        "book_depth_levels",
			Help:        "Number of distinct resting price levels, by side.",
			ConstLabels: prometheus.Labels{"market": market},
		}, []string{"side"}),
	}
	reg.MustRegister(r.matchLatency, r.tradesProcessed, r.bookDepth)
	return r
}

// ObserveMatch records how long a single message took to process.
func (r *Recorder) ObserveMatch(d time.Duration) {
	r.matchLatency.Observe(d.Seconds())
}

// AddTrades increments the trade-throughput counter by n.
func (r *Recorder) AddTrades(n int) {
	if n <= 0 {
		return
	}
	r.tradesProcessed.Add(float64(n))
}

// SetDepth reports the current number of resting price levels on side
// ("bid" or "ask").
func (r *Recorder) SetDepth(side string, levels int) {
	r.bookDepth.WithLabelValues(side).Set(float64(levels))
}
