package columnar

import (
	"math"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"
)

// Kind identifies the concrete type held by a column or a DataValue.
type Kind int

const (
	// KindNull is the kind of the zero DataValue. Columns never have it.
	KindNull Kind = iota
	KindFloat
	KindInteger
	KindString
	KindDatetime
)

// DisplayLayout is the layout used to render datetime cells.
const DisplayLayout = "2006-01-02 15:04:05"

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindDatetime:
		return "datetime"
	default:
		return "null"
	}
}

// Numeric reports whether statistics are defined for the kind.
func (k Kind) Numeric() bool {
	return k == KindFloat || k == KindInteger
}

// DataValue is the uniform value returned by every accessor. The zero value is Null.
type DataValue struct {
	kind Kind
	f    float64
	i    int64
	s    string
	t    time.Time
}

// FloatValue wraps a float64.
func FloatValue(v float64) DataValue { return DataValue{kind: KindFloat, f: v} }

// IntegerValue wraps an int64.
func IntegerValue(v int64) DataValue { return DataValue{kind: KindInteger, i: v} }

// StringValue wraps a string.
func StringValue(v string) DataValue { return DataValue{kind: KindString, s: v} }

// DatetimeValue wraps a time.Time.
func DatetimeValue(v time.Time) DataValue { return DataValue{kind: KindDatetime, t: v} }

// Null returns the null DataValue.
func Null() DataValue { return DataValue{} }

// Kind returns the kind of the held value.
func (v DataValue) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v DataValue) IsNull() bool { return v.kind == KindNull }

// Float returns the float64 and true when v is a Float.
func (v DataValue) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Integer returns the int64 and true when v is an Integer.
func (v DataValue) Integer() (int64, bool) { return v.i, v.kind == KindInteger }

// Text returns the string and true when v is a String.
func (v DataValue) Text() (string, bool) { return v.s, v.kind == KindString }

// Datetime returns the time and true when v is a Datetime.
func (v DataValue) Datetime() (time.Time, bool) { return v.t, v.kind == KindDatetime }

// String renders v the way cells are displayed.
func (v DataValue) String() string {
	switch v.kind {
	case KindFloat:
		return formatFloat(v.f)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindDatetime:
		return v.t.Format(DisplayLayout)
	default:
		return "null"
	}
}

// MarshalJSON encodes numbers as JSON numbers, datetimes as RFC 3339 strings
// and Null as null. NaN and infinities have no JSON form and encode as null.
func (v DataValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return gojson.Marshal(v.f)
	case KindInteger:
		return gojson.Marshal(v.i)
	case KindString:
		return gojson.Marshal(v.s)
	case KindDatetime:
		return gojson.Marshal(v.t.Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
