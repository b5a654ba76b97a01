// Package columnar holds framestat's typed in-memory columns.
//
// # Overview
//
// A column is created once from already-parsed values and never changes:
//
//	prices := columnar.NewFloatColumn("price", []float64{9.5, 3.25, 7})
//	v, err := prices.ValueAt(1) // Float(3.25)
//
// Four concrete columns exist, one per Kind:
//
//   - *Column[float64]   (KindFloat)
//   - *Column[int64]     (KindInteger)
//   - *Column[string]    (KindString)
//   - *Column[time.Time] (KindDatetime)
//
// They all satisfy Variant, a closed interface that lets callers hold any
// column without knowing its element type. Code that needs the element type
// (statistics, Arrow export) switches on the four concrete types.
//
// # Values
//
// Every accessor returns a DataValue, a small tagged value that is one of
// Float, Integer, String, Datetime or Null. Callers read it with the typed
// getters (Float, Integer, Text, Datetime) and never need to know the column
// kind up front.
//
// # Sorted snapshot
//
// SortedSnapshot sorts a private copy of the values on first use and keeps it
// tagged with the element count it was built from. Later calls return the
// memoized copy while the tag still matches. Floats are ordered with
// cmp.Compare, so NaN sorts before every number and sorting never panics.
//
// The memo is plain state: columns are not safe for concurrent use.
//
// # Arrow
//
// ToArrowRecord copies a set of columns into an Arrow record (Float64, Int64,
// Utf8 and microsecond Timestamp arrays) for handing data to Arrow consumers.
package columnar
