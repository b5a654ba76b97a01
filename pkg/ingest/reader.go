// Package ingest reads delimited text into raw per-column cell sequences.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/compression"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/logger"
	"github.com/ajitpratap0/framestat/pkg/schema"
)

// Options controls how delimited input is read.
type Options struct {
	// Separator between cells. Zero means ','.
	Separator rune
	// HeaderOffset is the number of lines skipped before the header row.
	HeaderOffset int
	// Compression of the input. Auto resolves from the file extension in
	// ReadFile and means None in Read.
	Compression compression.Algorithm
	// Logger defaults to logger.Get().
	Logger *zap.Logger
}

// Table is the transposed content of a delimited source.
type Table struct {
	Header []string
	// Cells holds one slice per column, all of length Rows.
	Cells [][]string
	Rows  int
}

// Columns returns the table as raw columns in header order.
func (t *Table) Columns() []schema.RawColumn {
	cols := make([]schema.RawColumn, len(t.Header))
	for i, name := range t.Header {
		cols[i] = schema.RawColumn{Name: name, Cells: t.Cells[i]}
	}
	return cols
}

// ReadFile opens path and reads it with Read, decompressing as configured.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").
			WithDetail("path", path)
	}
	defer f.Close()

	opts.Compression = opts.Compression.Resolve(path)
	t, err := Read(f, opts)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			e.WithDetail("path", path)
		}
		return nil, err
	}
	return t, nil
}

// Read parses delimited text from r. The first line after HeaderOffset is the
// header. Data rows wider than the header name the extra columns
// "Unnamed: <index>"; every data row must be as wide as the widest one.
func Read(r io.Reader, opts Options) (*Table, error) {
	l := opts.Logger
	if l == nil {
		l = logger.Get()
	}
	alg := opts.Compression
	if alg == compression.Auto {
		alg = compression.None
	}

	src, err := compression.NewReader(r, alg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	br := bufio.NewReader(src)
	for i := 0; i < opts.HeaderOffset; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, errors.New(errors.ErrorTypeUnexpectedEndOfInput, "input ended before the header row").
					WithDetail("header_offset", opts.HeaderOffset).
					WithDetail("skipped", i)
			}
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to skip leading lines")
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1 // widths are checked after transposing
	reader.LazyQuotes = true
	if opts.Separator != 0 {
		reader.Comma = opts.Separator
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeUnexpectedEndOfInput, "input has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read header")
	}

	var (
		records [][]string
		lines   []int
	)
	width := len(header)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read row").
				WithDetail("row", len(records))
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line+opts.HeaderOffset)
		width = max(width, len(rec))
	}

	t := &Table{
		Header: make([]string, width),
		Cells:  make([][]string, width),
		Rows:   len(records),
	}
	for i := range width {
		if i < len(header) {
			t.Header[i] = header[i]
		} else {
			t.Header[i] = fmt.Sprintf("Unnamed: %d", i)
		}
		t.Cells[i] = make([]string, len(records))
	}
	for row, rec := range records {
		if len(rec) != width {
			return nil, errors.New(errors.ErrorTypeRaggedColumns, "row has fewer cells than the widest row").
				WithDetail("row", row).
				WithDetail("line", lines[row]).
				WithDetail("cells", len(rec)).
				WithDetail("expected", width)
		}
		for col, cell := range rec {
			t.Cells[col][row] = cell
		}
	}

	l.Debug("delimited input read",
		zap.Int("columns", width),
		zap.Int("rows", t.Rows),
		zap.String("compression", string(alg)))
	return t, nil
}
