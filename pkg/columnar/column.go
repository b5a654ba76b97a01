package columnar

import (
	"cmp"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

// Variant is the closed set of concrete columns: *Column[float64],
// *Column[int64], *Column[string] and *Column[time.Time]. Callers that need
// the element type switch on those four types.
type Variant interface {
	Name() string
	Kind() Kind
	Len() int
	// ValueAt returns the cell at row i.
	ValueAt(i int) (DataValue, error)
	// DisplayRange renders rows [begin, end) and returns the widest rendering in runes.
	DisplayRange(begin, end int) ([]string, int, error)

	variant()
}

// traits carries the per-element-type behaviour of a column.
type traits[T any] struct {
	kind    Kind
	box     func(T) DataValue
	format  func(T) string
	compare func(a, b T) int
}

var (
	floatTraits = &traits[float64]{
		kind:    KindFloat,
		box:     FloatValue,
		format:  formatFloat,
		compare: cmp.Compare[float64], // NaN sorts first
	}
	integerTraits = &traits[int64]{
		kind:    KindInteger,
		box:     IntegerValue,
		format:  func(v int64) string { return strconv.FormatInt(v, 10) },
		compare: cmp.Compare[int64],
	}
	stringTraits = &traits[string]{
		kind:    KindString,
		box:     StringValue,
		format:  func(v string) string { return v },
		compare: cmp.Compare[string],
	}
	datetimeTraits = &traits[time.Time]{
		kind:    KindDatetime,
		box:     DatetimeValue,
		format:  func(v time.Time) string { return v.Format(DisplayLayout) },
		compare: func(a, b time.Time) int { return a.Compare(b) },
	}
)

// Column is a named, homogeneously typed sequence of values. It owns its
// values and is immutable after construction, apart from the memoized
// sorted snapshot.
//
// A Column is not safe for concurrent use: SortedSnapshot fills its memo on
// first call.
type Column[T any] struct {
	name   string
	values []T
	count  int
	traits *traits[T]

	sorted    []T
	sortedTag int
	hasSorted bool
}

func newColumn[T any](name string, values []T, tr *traits[T]) *Column[T] {
	return &Column[T]{
		name:   name,
		values: values,
		count:  len(values),
		traits: tr,
	}
}

// NewFloatColumn takes ownership of values.
func NewFloatColumn(name string, values []float64) *Column[float64] {
	return newColumn(name, values, floatTraits)
}

// NewIntegerColumn takes ownership of values.
func NewIntegerColumn(name string, values []int64) *Column[int64] {
	return newColumn(name, values, integerTraits)
}

// NewStringColumn takes ownership of values.
func NewStringColumn(name string, values []string) *Column[string] {
	return newColumn(name, values, stringTraits)
}

// NewDatetimeColumn takes ownership of values.
func NewDatetimeColumn(name string, values []time.Time) *Column[time.Time] {
	return newColumn(name, values, datetimeTraits)
}

func (c *Column[T]) variant() {}

// Name returns the column name.
func (c *Column[T]) Name() string { return c.name }

// Len returns the number of values.
func (c *Column[T]) Len() int { return c.count }

// Kind returns the column kind.
func (c *Column[T]) Kind() Kind {
	if c.traits == nil {
		return KindNull
	}
	return c.traits.kind
}

// Values returns the values in row order. The slice must not be modified.
func (c *Column[T]) Values() []T { return c.values }

// ValueAt returns the cell at row i.
func (c *Column[T]) ValueAt(i int) (DataValue, error) {
	if c.traits == nil {
		return Null(), unconstructed(c.name)
	}
	if i < 0 || i >= c.count {
		return Null(), errors.New(errors.ErrorTypeOutOfRange, "row index out of range").
			WithDetail("column", c.name).
			WithDetail("index", i).
			WithDetail("len", c.count)
	}
	return c.traits.box(c.values[i]), nil
}

// DisplayRange renders rows [begin, end) as text and returns the widest
// rendering in runes.
func (c *Column[T]) DisplayRange(begin, end int) ([]string, int, error) {
	if c.traits == nil {
		return nil, 0, unconstructed(c.name)
	}
	if begin < 0 || end > c.count || begin > end {
		return nil, 0, errors.New(errors.ErrorTypeOutOfRange, "display range outside column").
			WithDetail("column", c.name).
			WithDetail("begin", begin).
			WithDetail("end", end).
			WithDetail("len", c.count)
	}

	maxWidth := 0
	cells := make([]string, 0, end-begin)
	for _, v := range c.values[begin:end] {
		s := c.traits.format(v)
		if w := utf8.RuneCountInString(s); w > maxWidth {
			maxWidth = w
		}
		cells = append(cells, s)
	}
	return cells, maxWidth, nil
}

// SortedSnapshot returns the values in ascending order. The sorted copy is
// computed once and reused while its tag matches the element count. The
// returned slice is shared with the memo and must not be modified.
func (c *Column[T]) SortedSnapshot() []T {
	if c.hasSorted && c.sortedTag == c.count {
		return c.sorted
	}

	sorted := slices.Clone(c.values)
	if c.traits != nil {
		slices.SortFunc(sorted, c.traits.compare)
	}
	c.sorted = sorted
	c.sortedTag = c.count
	c.hasSorted = true
	return sorted
}

// Compare orders two elements the way SortedSnapshot does.
func (c *Column[T]) Compare(a, b T) int {
	if c.traits == nil {
		return 0
	}
	return c.traits.compare(a, b)
}

func unconstructed(name string) error {
	return errors.New(errors.ErrorTypeInternal, "column was not built by a columnar constructor").
		WithDetail("column", name)
}
