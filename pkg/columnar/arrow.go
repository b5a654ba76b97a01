package columnar

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

// ArrowType returns the Arrow data type used for a column kind. Datetimes map
// to microsecond UTC timestamps.
func ArrowType(k Kind) (arrow.DataType, error) {
	switch k {
	case KindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case KindInteger:
		return arrow.PrimitiveTypes.Int64, nil
	case KindString:
		return arrow.BinaryTypes.String, nil
	case KindDatetime:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeUnimplemented, "no arrow type for %s columns", k)
	}
}

// ArrowSchema describes cols as an Arrow schema. Duplicate names are kept.
func ArrowSchema(cols []Variant) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		dt, err := ArrowType(c.Kind())
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: c.Name(), Type: dt}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToArrowRecord copies cols into a single Arrow record. The caller owns the
// record and must Release it.
func ToArrowRecord(mem memory.Allocator, cols []Variant) (arrow.Record, error) {
	schema, err := ArrowSchema(cols)
	if err != nil {
		return nil, err
	}

	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Reserve(rows)

	for i, c := range cols {
		if c.Len() != rows {
			return nil, errors.New(errors.ErrorTypeRaggedColumns, "columns differ in length").
				WithDetail("column", c.Name()).
				WithDetail("len", c.Len()).
				WithDetail("expected", rows)
		}

		switch col := c.(type) {
		case *Column[float64]:
			b.Field(i).(*array.Float64Builder).AppendValues(col.values, nil)
		case *Column[int64]:
			b.Field(i).(*array.Int64Builder).AppendValues(col.values, nil)
		case *Column[string]:
			b.Field(i).(*array.StringBuilder).AppendValues(col.values, nil)
		case *Column[time.Time]:
			tb := b.Field(i).(*array.TimestampBuilder)
			for _, t := range col.values {
				tb.Append(arrow.Timestamp(t.UnixMicro()))
			}
		default:
			return nil, errors.Newf(errors.ErrorTypeUnimplemented, "unsupported column type %T", c)
		}
	}

	return b.NewRecord(), nil
}
