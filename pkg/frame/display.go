package frame

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

// DefaultHeadRows is the number of rows Head prints when asked for 0.
const DefaultHeadRows = 5

const cellSeparator = ", "

// DisplayColumn is the rendered form of one column over a row range.
type DisplayColumn struct {
	Name  string
	Cells []string
	// Width is the widest cell or the name, in runes.
	Width int
}

// DisplayRange renders rows [begin, end) of every column.
func (df *DataFrame) DisplayRange(begin, end int) ([]DisplayColumn, error) {
	if begin < 0 || end > df.rows || begin > end {
		return nil, errors.New(errors.ErrorTypeOutOfRange, "invalid display range").
			WithDetail("begin", begin).
			WithDetail("end", end).
			WithDetail("rows", df.rows)
	}

	out := make([]DisplayColumn, len(df.columns))
	for i, col := range df.columns {
		cells, width, err := col.DisplayRange(begin, end)
		if err != nil {
			return nil, err
		}
		out[i] = DisplayColumn{
			Name:  col.Name(),
			Cells: cells,
			Width: max(width, utf8.RuneCountInString(col.Name())),
		}
	}
	return out, nil
}

// Format renders rows [begin, end) as a header line followed by one line per
// row. Cells are left aligned to their column width and joined by ", ".
func (df *DataFrame) Format(begin, end int) (string, error) {
	cols, err := df.DisplayRange(begin, end)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeLine := func(cell func(DisplayColumn) string) {
		for i, c := range cols {
			if i > 0 {
				b.WriteString(cellSeparator)
			}
			fmt.Fprintf(&b, "%-*s", c.Width, cell(c))
		}
		b.WriteByte('\n')
	}

	writeLine(func(c DisplayColumn) string { return c.Name })
	for row := 0; row < end-begin; row++ {
		writeLine(func(c DisplayColumn) string { return c.Cells[row] })
	}
	return b.String(), nil
}

// Head renders the first n rows, DefaultHeadRows when n is 0. Asking for
// more rows than the frame holds fails with ErrorTypeOutOfRange, including
// the default on a frame shorter than DefaultHeadRows.
func (df *DataFrame) Head(n int) (string, error) {
	if n == 0 {
		n = DefaultHeadRows
	}
	if n < 0 || n > df.rows {
		return "", errors.New(errors.ErrorTypeOutOfRange, "more rows requested than the frame holds").
			WithDetail("requested", n).
			WithDetail("rows", df.rows)
	}
	return df.Format(0, n)
}
