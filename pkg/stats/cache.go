package stats

import (
	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/metrics"
)

// Metric names a statistic.
type Metric int

const (
	MetricMean Metric = iota
	MetricMedian
	MetricStdDev
	MetricQuantile
)

func (m Metric) String() string {
	switch m {
	case MetricMean:
		return "mean"
	case MetricMedian:
		return "median"
	case MetricStdDev:
		return "stddev"
	case MetricQuantile:
		return "quantile"
	default:
		return "unknown"
	}
}

// Cacheable reports whether results of m can be memoized per column.
// Quantile depends on its level and is always recomputed.
func (m Metric) Cacheable() bool {
	return m == MetricMean || m == MetricMedian || m == MetricStdDev
}

type cacheEntry struct {
	mean   *columnar.DataValue
	median *columnar.DataValue
	stddev *columnar.DataValue
}

func (e *cacheEntry) slot(m Metric) **columnar.DataValue {
	switch m {
	case MetricMean:
		return &e.mean
	case MetricMedian:
		return &e.median
	default:
		return &e.stddev
	}
}

// Cache memoizes mean, median and stddev per column name. Entries are never
// invalidated; columns must not change after construction. Not safe for
// concurrent use.
type Cache struct {
	entries map[string]*cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Get returns the stored value for column and metric, if any.
func (c *Cache) Get(column string, metric Metric) (columnar.DataValue, bool) {
	if !metric.Cacheable() {
		return columnar.Null(), false
	}
	e, ok := c.entries[column]
	if !ok {
		return columnar.Null(), false
	}
	v := *e.slot(metric)
	if v == nil {
		return columnar.Null(), false
	}
	return *v, true
}

// GetOrCompute returns the stored value or calls compute and stores its
// result. Failures are returned without being stored. Metrics that are not
// cacheable always call compute.
func (c *Cache) GetOrCompute(column string, metric Metric, compute func() (columnar.DataValue, error)) (columnar.DataValue, error) {
	if !metric.Cacheable() {
		return compute()
	}
	if v, ok := c.Get(column, metric); ok {
		metrics.StatisticsCache.WithLabelValues(metric.String(), metrics.CacheHit).Inc()
		return v, nil
	}
	metrics.StatisticsCache.WithLabelValues(metric.String(), metrics.CacheMiss).Inc()

	v, err := compute()
	if err != nil {
		return columnar.Null(), err
	}
	e, ok := c.entries[column]
	if !ok {
		e = &cacheEntry{}
		c.entries[column] = e
	}
	stored := v
	*e.slot(metric) = &stored
	return v, nil
}

// Len returns the number of columns with at least one stored metric.
func (c *Cache) Len() int {
	return len(c.entries)
}
