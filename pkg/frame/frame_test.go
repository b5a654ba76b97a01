package frame

import (
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/ingest"
	"github.com/ajitpratap0/framestat/pkg/schema"
	"github.com/ajitpratap0/framestat/pkg/stats"
)

// countingCalculator counts how often each statistic scans a column.
type countingCalculator struct {
	inner  stats.Calculator
	counts map[string]int
}

func newCountingCalculator() *countingCalculator {
	return &countingCalculator{inner: stats.NewEngine(), counts: make(map[string]int)}
}

func (c *countingCalculator) Mean(v columnar.Variant) (columnar.DataValue, error) {
	c.counts["mean"]++
	return c.inner.Mean(v)
}

func (c *countingCalculator) Median(v columnar.Variant) (columnar.DataValue, error) {
	c.counts["median"]++
	return c.inner.Median(v)
}

func (c *countingCalculator) Quantile(v columnar.Variant, q float64) (columnar.DataValue, error) {
	c.counts["quantile"]++
	return c.inner.Quantile(v, q)
}

func (c *countingCalculator) StdDev(v columnar.Variant) (columnar.DataValue, error) {
	c.counts["stddev"]++
	return c.inner.StdDev(v)
}

func sampleRaw() []schema.RawColumn {
	return []schema.RawColumn{
		{Name: "id", Cells: []string{"1", "2", "3", "4"}},
		{Name: "price", Cells: []string{"10.0", "20.0", "30.0", "40.0"}},
		{Name: "name", Cells: []string{"a", "bb", "ccc", "dddd"}},
		{Name: "day", Cells: []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}},
	}
}

func sampleFrame(t *testing.T, opts ...Option) *DataFrame {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	df, err := New(sampleRaw(), map[string]schema.ColumnConfig{
		"day": {AsDatetime: true, DateFormat: "%Y-%m-%d"},
	}, opts...)
	require.NoError(t, err)
	return df
}

func TestNew(t *testing.T) {
	df := sampleFrame(t)

	assert.Equal(t, 4, df.ColumnCount())
	assert.Equal(t, 4, df.RowCount())
	assert.Equal(t, []string{"id", "price", "name", "day"}, df.Header())

	kinds := make([]columnar.Kind, 0, df.ColumnCount())
	for _, col := range df.Columns() {
		kinds = append(kinds, col.Kind())
	}
	assert.Equal(t, []columnar.Kind{
		columnar.KindInteger, columnar.KindFloat, columnar.KindString, columnar.KindDatetime,
	}, kinds)
}

func TestNewErrors(t *testing.T) {
	_, err := New([]schema.RawColumn{
		{Name: "a", Cells: []string{"1", "2"}},
		{Name: "b", Cells: []string{"1"}},
	}, nil, WithLogger(zap.NewNop()))
	assert.True(t, errors.IsType(err, errors.ErrorTypeRaggedColumns))

	_, err = New([]schema.RawColumn{
		{Name: "when", Cells: []string{"yesterday"}},
	}, map[string]schema.ColumnConfig{"when": {AsDatetime: true}}, WithLogger(zap.NewNop()))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidColumnType))
}

func TestEmptyFrame(t *testing.T) {
	df, err := New(nil, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, 0, df.ColumnCount())
	assert.Equal(t, 0, df.RowCount())

	out, err := df.Head(0)
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestGetColumnAndValueAt(t *testing.T) {
	df := sampleFrame(t)

	col, err := df.GetColumn("price")
	require.NoError(t, err)
	assert.Equal(t, columnar.KindFloat, col.Kind())

	_, err = df.GetColumn("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumn))

	v, err := df.ValueAt("name", 2)
	require.NoError(t, err)
	assert.Equal(t, columnar.StringValue("ccc"), v)

	v, err = df.ValueAt("day", 0)
	require.NoError(t, err)
	assert.Equal(t, columnar.DatetimeValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), v)

	for _, name := range df.Header() {
		_, err = df.ValueAt(name, df.RowCount())
		assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange), name)
	}

	_, err = df.ValueAt("missing", 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumn))
}

func TestDuplicateNamesResolveToFirst(t *testing.T) {
	df, err := New([]schema.RawColumn{
		{Name: "x", Cells: []string{"1", "3"}},
		{Name: "x", Cells: []string{"a", "b"}},
	}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "x"}, df.Header())

	col, err := df.GetColumn("x")
	require.NoError(t, err)
	assert.Equal(t, columnar.KindInteger, col.Kind())

	mean, err := df.Mean("x")
	require.NoError(t, err)
	assert.Equal(t, columnar.FloatValue(2), mean)
}

func TestStatistics(t *testing.T) {
	df := sampleFrame(t)

	mean, err := df.Mean("id")
	require.NoError(t, err)
	assert.Equal(t, columnar.FloatValue(2.5), mean)

	median, err := df.Median("price")
	require.NoError(t, err)
	assert.Equal(t, columnar.FloatValue(25), median)

	fq, err := df.Quantile("price", 0.5)
	require.NoError(t, err)
	assert.Equal(t, columnar.FloatValue(25), fq)

	iq, err := df.Quantile("id", 0.5)
	require.NoError(t, err)
	assert.Equal(t, columnar.IntegerValue(2), iq)

	_, err = df.Quantile("id", 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidQuantile))

	for _, name := range []string{"name", "day"} {
		_, err = df.Mean(name)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidMetricType), name)
		_, err = df.Median(name)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidMetricType), name)
		_, err = df.Quantile(name, 0.5)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidMetricType), name)
	}

	_, err = df.StdDev("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumn))
}

func TestCachedStatisticsScanOnce(t *testing.T) {
	calc := newCountingCalculator()
	df := sampleFrame(t, WithCalculator(calc))

	first, err := df.Mean("price")
	require.NoError(t, err)
	second, err := df.Mean("price")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calc.counts["mean"])

	for range 3 {
		_, err = df.Median("price")
		require.NoError(t, err)
		_, err = df.StdDev("price")
		require.NoError(t, err)
		_, err = df.Quantile("price", 0.5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calc.counts["median"])
	assert.Equal(t, 1, calc.counts["stddev"])
	assert.Equal(t, 3, calc.counts["quantile"])
}

func TestFailedStatisticsAreRetried(t *testing.T) {
	calc := newCountingCalculator()
	df := sampleFrame(t, WithCalculator(calc))

	for range 2 {
		_, err := df.Mean("name")
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidMetricType))
	}
	assert.Equal(t, 2, calc.counts["mean"])
}

func TestEmptyColumnStatistics(t *testing.T) {
	df, err := New([]schema.RawColumn{{Name: "n"}}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	_, err = df.Mean("n")
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyColumn))
	_, err = df.Quantile("n", 0.5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyColumn))
}

func TestFromTable(t *testing.T) {
	table, err := ingest.Read(strings.NewReader("a,b\n1,x\n2,y\n"), ingest.Options{Logger: zap.NewNop()})
	require.NoError(t, err)

	df, err := FromTable(table, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, df.Header())
	assert.Equal(t, 2, df.RowCount())
}

func TestFromColumns(t *testing.T) {
	cols := []columnar.Variant{
		columnar.NewIntegerColumn("a", []int64{1}),
		columnar.NewFloatColumn("b", []float64{1, 2}),
	}
	_, err := FromColumns(cols, WithLogger(zap.NewNop()))
	assert.True(t, errors.IsType(err, errors.ErrorTypeRaggedColumns))

	_, err = FromColumns([]columnar.Variant{nil}, WithLogger(zap.NewNop()))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}

func TestToArrowRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := sampleFrame(t).ToArrowRecord(mem)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(4), rec.NumRows())
	assert.Equal(t, "day", rec.Schema().Field(3).Name)
}
