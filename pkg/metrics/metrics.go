// Package metrics exposes Prometheus instrumentation for framestat.
//
// # Overview
//
// The counters describe what the engine did while a frame was built and
// queried:
//   - which concrete kind every column resolved to
//   - how many inference candidates were discarded on the way
//   - how often the statistics cache answered without recomputing
//   - how many statistics the engine actually computed, and how long they took
//
// # Basic Usage
//
//	metrics.ColumnsInferred.WithLabelValues("integer").Inc()
//
//	timer := metrics.NewTimer("median")
//	v, err := compute()
//	timer.ObserveStatistic("float")
//
// All collectors are registered with the default Prometheus registry through
// promauto, so any process that serves promhttp.Handler exports them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes used as the "result" label of StatisticsCache.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// ColumnsInferred counts resolved column kinds.
	// Labels: kind (float, integer, string, datetime)
	ColumnsInferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framestat_inference_total",
			Help: "Number of columns resolved by type inference, by kind",
		},
		[]string{"kind"},
	)

	// InferenceFallbacks counts candidates discarded by the inference cascade.
	// Labels: candidate (integer, float)
	InferenceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framestat_inference_fallbacks_total",
			Help: "Number of inference candidates rejected before a column kind was chosen",
		},
		[]string{"candidate"},
	)

	// StatisticsCache counts cache lookups.
	// Labels: metric (mean, median, stddev), result (hit, miss)
	StatisticsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framestat_statistics_cache_total",
			Help: "Statistics cache lookups by metric and outcome",
		},
		[]string{"metric", "result"},
	)

	// StatisticsComputed counts statistics computed by the engine.
	// Labels: metric (mean, median, quantile, stddev), kind (float, integer)
	StatisticsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framestat_statistics_computations_total",
			Help: "Statistics computed by the engine, by metric and column kind",
		},
		[]string{"metric", "kind"},
	)

	// StatisticsLatency tracks how long each statistic took in seconds.
	// Labels: metric
	StatisticsLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "framestat_statistics_duration_seconds",
			Help:    "Time spent computing a statistic",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8), // 1µs .. 10s
		},
		[]string{"metric"},
	)
)

// Timer measures one statistic computation.
type Timer struct {
	start  time.Time
	metric string
}

// NewTimer starts timing the named metric.
func NewTimer(metric string) *Timer {
	return &Timer{
		start:  time.Now(),
		metric: metric,
	}
}

// Stop returns the elapsed duration since the timer was created.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveStatistic records the elapsed time and counts one computation of the
// timer's metric for a column of the given kind.
func (t *Timer) ObserveStatistic(kind string) time.Duration {
	d := t.Stop()
	StatisticsLatency.WithLabelValues(t.metric).Observe(d.Seconds())
	StatisticsComputed.WithLabelValues(t.metric, kind).Inc()
	return d
}
