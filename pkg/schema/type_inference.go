package schema

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/logger"
	"github.com/ajitpratap0/framestat/pkg/metrics"
)

// RawColumn is one field of the input: its name and its text cells in row order.
type RawColumn struct {
	Name  string
	Cells []string
}

// ColumnConfig overrides inference for one column.
type ColumnConfig struct {
	// AsDatetime forces the column to parse as datetime.
	AsDatetime bool `yaml:"as_datetime" json:"as_datetime"`
	// DateFormat is a strftime format ("%Y-%m-%d") or a Go layout
	// ("2006-01-02"). Empty means guess from DefaultDateLayouts.
	DateFormat string `yaml:"format" json:"format,omitempty"`
}

// candidate is one step of the inference cascade.
type candidate struct {
	kind  columnar.Kind
	build func(cells []string, name string) (columnar.Variant, *cellError)
}

// cellError records the first cell a candidate could not parse.
type cellError struct {
	row   int
	value string
	err   error
}

// TypeInferenceEngine decides the concrete type of raw text columns.
type TypeInferenceEngine struct {
	logger     *zap.Logger
	layouts    []string
	candidates []candidate
}

// Option configures a TypeInferenceEngine.
type Option func(*TypeInferenceEngine)

// WithDateLayouts replaces the layouts tried when guessing datetimes.
func WithDateLayouts(layouts ...string) Option {
	return func(e *TypeInferenceEngine) {
		e.layouts = layouts
	}
}

// NewTypeInferenceEngine creates an engine. A nil logger uses the global logger.
func NewTypeInferenceEngine(l *zap.Logger, opts ...Option) *TypeInferenceEngine {
	if l == nil {
		l = logger.Get()
	}
	e := &TypeInferenceEngine{
		logger:  l.Named("inference"),
		layouts: DefaultDateLayouts,
		// Most specific representation first: exact integers, then floats,
		// then text, which always succeeds.
		candidates: []candidate{
			{kind: columnar.KindInteger, build: buildInteger},
			{kind: columnar.KindFloat, build: buildFloat},
			{kind: columnar.KindString, build: buildString},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Infer converts the cells of one column into a typed column.
//
// With cfg.AsDatetime every cell must parse as a datetime, otherwise the
// column fails with ErrorTypeInvalidColumnType. Without it the candidates
// Integer, Float and String are tried in that order; a candidate that cannot
// parse every cell is logged and skipped.
func (e *TypeInferenceEngine) Infer(cells []string, name string, cfg *ColumnConfig) (columnar.Variant, error) {
	if cfg != nil && cfg.AsDatetime {
		col, err := e.inferDatetime(cells, name, cfg.DateFormat)
		if err != nil {
			return nil, err
		}
		metrics.ColumnsInferred.WithLabelValues(columnar.KindDatetime.String()).Inc()
		return col, nil
	}

	for _, c := range e.candidates {
		col, cerr := c.build(cells, name)
		if cerr == nil {
			metrics.ColumnsInferred.WithLabelValues(c.kind.String()).Inc()
			e.logger.Debug("column type inferred",
				zap.String("column", name),
				zap.Stringer("kind", c.kind),
				zap.Int("rows", len(cells)))
			return col, nil
		}
		metrics.InferenceFallbacks.WithLabelValues(c.kind.String()).Inc()
		e.logger.Debug("column couldn't be parsed as candidate type",
			zap.String("column", name),
			zap.Stringer("candidate", c.kind),
			zap.Int("row", cerr.row),
			zap.String("value", cerr.value),
			zap.Error(cerr.err))
	}

	return nil, errors.New(errors.ErrorTypeInvalidColumnType, "no candidate type matches every cell").
		WithDetail("column", name)
}

func (e *TypeInferenceEngine) inferDatetime(cells []string, name, format string) (columnar.Variant, error) {
	parse := e.guessDatetime
	if format != "" {
		parse = func(s string) (time.Time, error) { return parseWithFormat(format, s) }
	}

	values := make([]time.Time, len(cells))
	for i, cell := range cells {
		t, err := parse(cell)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInvalidColumnType, "cell could not be parsed as datetime").
				WithDetail("column", name).
				WithDetail("row", i).
				WithDetail("value", cell).
				WithDetail("format", format)
		}
		values[i] = t
	}
	return columnar.NewDatetimeColumn(name, values), nil
}

func buildInteger(cells []string, name string) (columnar.Variant, *cellError) {
	values := make([]int64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, &cellError{row: i, value: cell, err: err}
		}
		values[i] = v
	}
	return columnar.NewIntegerColumn(name, values), nil
}

func buildFloat(cells []string, name string) (columnar.Variant, *cellError) {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &cellError{row: i, value: cell, err: err}
		}
		values[i] = v
	}
	return columnar.NewFloatColumn(name, values), nil
}

func buildString(cells []string, name string) (columnar.Variant, *cellError) {
	values := make([]string, len(cells))
	copy(values, cells)
	return columnar.NewStringColumn(name, values), nil
}
