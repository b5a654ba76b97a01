package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTimerObserveStatistic(t *testing.T) {
	before := testutil.ToFloat64(StatisticsComputed.WithLabelValues("mean", "float"))

	timer := NewTimer("mean")
	time.Sleep(time.Millisecond)
	d := timer.ObserveStatistic("float")

	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(StatisticsComputed.WithLabelValues("mean", "float")))
}

func TestCollectorsRegistered(t *testing.T) {
	ColumnsInferred.WithLabelValues("integer").Inc()
	InferenceFallbacks.WithLabelValues("integer").Inc()
	StatisticsCache.WithLabelValues("median", CacheHit).Inc()

	assert.GreaterOrEqual(t, testutil.CollectAndCount(ColumnsInferred), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(InferenceFallbacks), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(StatisticsCache), 1)
}
