package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/metrics"
)

// Statistics is the capability set of a numeric column.
type Statistics interface {
	Mean() (columnar.DataValue, error)
	Median() (columnar.DataValue, error)
	Quantile(q float64) (columnar.DataValue, error)
	StdDev() (columnar.DataValue, error)
}

// Calculator computes statistics over any column variant. Engine is the
// production implementation; frames accept others for instrumentation.
type Calculator interface {
	Mean(v columnar.Variant) (columnar.DataValue, error)
	Median(v columnar.Variant) (columnar.DataValue, error)
	Quantile(v columnar.Variant, q float64) (columnar.DataValue, error)
	StdDev(v columnar.Variant) (columnar.DataValue, error)
}

// Engine dispatches statistics to the numeric column adapters.
type Engine struct {
	pivot PivotFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithPivot sets the pivot strategy used by median selection.
func WithPivot(p PivotFunc) Option {
	return func(e *Engine) {
		if p != nil {
			e.pivot = p
		}
	}
}

// NewEngine creates an engine using RandomPivot unless configured otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{pivot: RandomPivot}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Calculator = (*Engine)(nil)

// For returns the statistics of v. Only Float and Integer columns have any;
// other kinds fail with ErrorTypeInvalidMetricType.
func (e *Engine) For(v columnar.Variant) (Statistics, error) {
	switch col := v.(type) {
	case *columnar.Column[float64]:
		return &floatStatistics{col: col, pivot: e.pivot}, nil
	case *columnar.Column[int64]:
		return &integerStatistics{col: col, pivot: e.pivot}, nil
	case nil:
		return nil, errors.New(errors.ErrorTypeInternal, "nil column")
	default:
		return nil, errors.New(errors.ErrorTypeInvalidMetricType, "statistics are only defined for numeric columns").
			WithDetail("column", v.Name()).
			WithDetail("kind", v.Kind().String())
	}
}

// Mean returns the arithmetic mean of v as a Float.
func (e *Engine) Mean(v columnar.Variant) (columnar.DataValue, error) {
	return e.compute(v, MetricMean, Statistics.Mean)
}

// Median returns the middle value of v.
func (e *Engine) Median(v columnar.Variant) (columnar.DataValue, error) {
	return e.compute(v, MetricMedian, Statistics.Median)
}

// StdDev returns the sample standard deviation of v as a Float.
func (e *Engine) StdDev(v columnar.Variant) (columnar.DataValue, error) {
	return e.compute(v, MetricStdDev, Statistics.StdDev)
}

// Quantile returns the q-th quantile of v, 0 <= q < 1.
func (e *Engine) Quantile(v columnar.Variant, q float64) (columnar.DataValue, error) {
	return e.compute(v, MetricQuantile, func(s Statistics) (columnar.DataValue, error) {
		return s.Quantile(q)
	})
}

func (e *Engine) compute(v columnar.Variant, m Metric, fn func(Statistics) (columnar.DataValue, error)) (columnar.DataValue, error) {
	s, err := e.For(v)
	if err != nil {
		return columnar.Null(), err
	}
	timer := metrics.NewTimer(m.String())
	result, err := fn(s)
	if err != nil {
		return columnar.Null(), err
	}
	timer.ObserveStatistic(v.Kind().String())
	return result, nil
}

func emptyColumn(name string) error {
	return errors.New(errors.ErrorTypeEmptyColumn, "statistic requested on a column without rows").
		WithDetail("column", name)
}

func validateQuantile(name string, q float64) error {
	// Half-open: 1.0 itself is rejected. The negated form also rejects NaN.
	if !(q >= 0 && q < 1) {
		return errors.Newf(errors.ErrorTypeInvalidQuantile, "quantile %v outside [0, 1)", q).
			WithDetail("column", name).
			WithDetail("quantile", q)
	}
	return nil
}

type floatStatistics struct {
	col   *columnar.Column[float64]
	pivot PivotFunc
}

func (s *floatStatistics) Mean() (columnar.DataValue, error) {
	values := s.col.Values()
	if len(values) == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	return columnar.FloatValue(stat.Mean(values, nil)), nil
}

// Median averages the two middle values of an even-length column.
func (s *floatStatistics) Median() (columnar.DataValue, error) {
	values := s.col.Values()
	n := len(values)
	if n == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	hi, err := Select(values, n/2, s.col.Compare, s.pivot)
	if err != nil {
		return columnar.Null(), err
	}
	if n%2 == 1 {
		return columnar.FloatValue(hi), nil
	}
	lo, err := Select(values, n/2-1, s.col.Compare, s.pivot)
	if err != nil {
		return columnar.Null(), err
	}
	return columnar.FloatValue(lo/2 + hi/2), nil
}

// Quantile interpolates linearly between the two closest ranks.
func (s *floatStatistics) Quantile(q float64) (columnar.DataValue, error) {
	if err := validateQuantile(s.col.Name(), q); err != nil {
		return columnar.Null(), err
	}
	n := s.col.Len()
	if n == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}

	sorted := s.col.SortedSnapshot()
	pos := min(max(q*float64(n-1), 0), float64(n-1))
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return columnar.FloatValue(sorted[lo]), nil
	}
	frac := pos - float64(lo)
	return columnar.FloatValue(sorted[lo]*(1-frac) + sorted[hi]*frac), nil
}

func (s *floatStatistics) StdDev() (columnar.DataValue, error) {
	values := s.col.Values()
	if len(values) == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	return columnar.FloatValue(stat.StdDev(values, nil)), nil
}

type integerStatistics struct {
	col   *columnar.Column[int64]
	pivot PivotFunc
}

func (s *integerStatistics) Mean() (columnar.DataValue, error) {
	values := s.col.Values()
	if len(values) == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	return columnar.FloatValue(stat.Mean(toFloats(values), nil)), nil
}

// Median of an even-length column is the floor of the midpoint of the two
// middle values, kept as an Integer.
func (s *integerStatistics) Median() (columnar.DataValue, error) {
	values := s.col.Values()
	n := len(values)
	if n == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	hi, err := Select(values, n/2, s.col.Compare, s.pivot)
	if err != nil {
		return columnar.Null(), err
	}
	if n%2 == 1 {
		return columnar.IntegerValue(hi), nil
	}
	lo, err := Select(values, n/2-1, s.col.Compare, s.pivot)
	if err != nil {
		return columnar.Null(), err
	}
	return columnar.IntegerValue(floorMidpoint(lo, hi)), nil
}

// Quantile returns the nearest-rank element; integers are never interpolated.
func (s *integerStatistics) Quantile(q float64) (columnar.DataValue, error) {
	if err := validateQuantile(s.col.Name(), q); err != nil {
		return columnar.Null(), err
	}
	n := s.col.Len()
	if n == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}

	sorted := s.col.SortedSnapshot()
	idx := int(math.Ceil(q*float64(n))) - 1
	idx = min(max(idx, 0), n-1)
	return columnar.IntegerValue(sorted[idx]), nil
}

func (s *integerStatistics) StdDev() (columnar.DataValue, error) {
	values := s.col.Values()
	if len(values) == 0 {
		return columnar.Null(), emptyColumn(s.col.Name())
	}
	return columnar.FloatValue(stat.StdDev(toFloats(values), nil)), nil
}

func toFloats(values []int64) []float64 {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return floats
}

// floorMidpoint returns floor((a+b)/2) without overflowing int64.
func floorMidpoint(a, b int64) int64 {
	return a>>1 + b>>1 + a&b&1
}
