// Package frame assembles typed columns into a DataFrame with cached
// statistics and cell access by column name.
package frame

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/ingest"
	"github.com/ajitpratap0/framestat/pkg/logger"
	"github.com/ajitpratap0/framestat/pkg/schema"
	"github.com/ajitpratap0/framestat/pkg/stats"
)

// DataFrame is an ordered set of equally long typed columns. Column names
// may repeat; lookups by name resolve to the first match.
//
// A DataFrame is not safe for concurrent use: statistics calls fill the
// per-column sorted memo and the statistics cache lazily.
type DataFrame struct {
	columns []columnar.Variant
	header  []string
	rows    int
	cache   *stats.Cache
	calc    stats.Calculator
	logger  *zap.Logger
}

type options struct {
	logger    *zap.Logger
	calc      stats.Calculator
	inference *schema.TypeInferenceEngine
}

// Option configures a DataFrame.
type Option func(*options)

// WithLogger sets the logger used by the frame and its default inference engine.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCalculator replaces the statistics engine.
func WithCalculator(c stats.Calculator) Option {
	return func(o *options) {
		o.calc = c
	}
}

// WithInferenceEngine replaces the type inference engine.
func WithInferenceEngine(e *schema.TypeInferenceEngine) Option {
	return func(o *options) {
		o.inference = e
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	if o.calc == nil {
		o.calc = stats.NewEngine()
	}
	if o.inference == nil {
		o.inference = schema.NewTypeInferenceEngine(o.logger)
	}
	return o
}

// New infers a typed column from each raw column. configs holds per-column
// overrides keyed by column name and may be nil.
//
// All raw columns must have the same number of cells; otherwise New fails
// with ErrorTypeRaggedColumns. A forced datetime column that does not parse
// fails with ErrorTypeInvalidColumnType.
func New(raw []schema.RawColumn, configs map[string]schema.ColumnConfig, opts ...Option) (*DataFrame, error) {
	o := buildOptions(opts)

	columns := make([]columnar.Variant, 0, len(raw))
	for _, rc := range raw {
		var cfg *schema.ColumnConfig
		if c, ok := configs[rc.Name]; ok {
			cfg = &c
		}
		col, err := o.inference.Infer(rc.Cells, rc.Name, cfg)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return build(columns, o)
}

// FromTable builds a DataFrame from delimited input.
func FromTable(t *ingest.Table, configs map[string]schema.ColumnConfig, opts ...Option) (*DataFrame, error) {
	return New(t.Columns(), configs, opts...)
}

// FromColumns wraps already typed columns.
func FromColumns(columns []columnar.Variant, opts ...Option) (*DataFrame, error) {
	return build(append([]columnar.Variant(nil), columns...), buildOptions(opts))
}

func build(columns []columnar.Variant, o options) (*DataFrame, error) {
	df := &DataFrame{
		columns: columns,
		header:  make([]string, len(columns)),
		cache:   stats.NewCache(),
		calc:    o.calc,
		logger:  o.logger.Named("frame"),
	}
	for i, col := range columns {
		if col == nil {
			return nil, errors.New(errors.ErrorTypeInternal, "nil column").WithDetail("index", i)
		}
		if i == 0 {
			df.rows = col.Len()
		} else if col.Len() != df.rows {
			return nil, errors.New(errors.ErrorTypeRaggedColumns, "columns differ in length").
				WithDetail("column", col.Name()).
				WithDetail("rows", col.Len()).
				WithDetail("expected", df.rows)
		}
		df.header[i] = col.Name()
	}

	df.logger.Debug("data frame built",
		zap.Int("columns", len(columns)),
		zap.Int("rows", df.rows))
	return df, nil
}

// Header returns the column names in order, duplicates included.
func (df *DataFrame) Header() []string {
	return append([]string(nil), df.header...)
}

// ColumnCount returns the number of columns.
func (df *DataFrame) ColumnCount() int { return len(df.columns) }

// RowCount returns the number of rows shared by every column.
func (df *DataFrame) RowCount() int { return df.rows }

// Columns returns the columns in order.
func (df *DataFrame) Columns() []columnar.Variant {
	return append([]columnar.Variant(nil), df.columns...)
}

// GetColumn returns the first column called name.
func (df *DataFrame) GetColumn(name string) (columnar.Variant, error) {
	for _, col := range df.columns {
		if col.Name() == name {
			return col, nil
		}
	}
	return nil, errors.New(errors.ErrorTypeMissingColumn, "column not found").
		WithDetail("column", name)
}

// ValueAt returns the cell of column name at row.
func (df *DataFrame) ValueAt(name string, row int) (columnar.DataValue, error) {
	col, err := df.GetColumn(name)
	if err != nil {
		return columnar.Null(), err
	}
	return col.ValueAt(row)
}

// Mean returns the cached arithmetic mean of column name.
func (df *DataFrame) Mean(name string) (columnar.DataValue, error) {
	return df.cached(name, stats.MetricMean, df.calc.Mean)
}

// Median returns the cached median of column name.
func (df *DataFrame) Median(name string) (columnar.DataValue, error) {
	return df.cached(name, stats.MetricMedian, df.calc.Median)
}

// StdDev returns the cached sample standard deviation of column name.
func (df *DataFrame) StdDev(name string) (columnar.DataValue, error) {
	return df.cached(name, stats.MetricStdDev, df.calc.StdDev)
}

// Quantile returns the q-th quantile of column name. It is never cached.
func (df *DataFrame) Quantile(name string, q float64) (columnar.DataValue, error) {
	col, err := df.GetColumn(name)
	if err != nil {
		return columnar.Null(), err
	}
	return df.calc.Quantile(col, q)
}

func (df *DataFrame) cached(name string, m stats.Metric, fn func(columnar.Variant) (columnar.DataValue, error)) (columnar.DataValue, error) {
	col, err := df.GetColumn(name)
	if err != nil {
		return columnar.Null(), err
	}
	return df.cache.GetOrCompute(name, m, func() (columnar.DataValue, error) {
		return fn(col)
	})
}

// ToArrowRecord copies the frame into an arrow record allocated from mem.
// The caller must Release the record.
func (df *DataFrame) ToArrowRecord(mem memory.Allocator) (arrow.Record, error) {
	return columnar.ToArrowRecord(mem, df.columns)
}
