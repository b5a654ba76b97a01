// Package framestat loads delimited text files into typed, in-memory columns
// and computes descriptive statistics over them.
//
// Every column is parsed into the narrowest type that accepts all of its
// cells, trying integer, then float, then string. A column can be forced to
// parse as datetime with a strftime pattern, a Go layout, or no format at all.
// Numeric columns answer mean, median, standard deviation and quantile
// queries; mean, median and standard deviation are cached per column.
//
// # Architecture
//
// A file flows through four stages:
//
// 1. Ingest: pkg/ingest splits the (optionally compressed) input into a header
// and raw cells, honoring a configurable separator and header offset.
//
// 2. Inference: pkg/schema turns each raw column into a pkg/columnar column.
//
// 3. Frame: pkg/frame holds the ordered columns, answers lookups by name and
// renders previews and summaries.
//
// 4. Statistics: pkg/stats computes metrics with an iterative three-way
// quickselect and caches the results.
//
// # Quick Start
//
// Library use:
//
//	import (
//	    "github.com/ajitpratap0/framestat/pkg/frame"
//	    "github.com/ajitpratap0/framestat/pkg/ingest"
//	)
//
//	table, err := ingest.ReadFile("sales.csv.gz", ingest.Options{Separator: ';'})
//	if err != nil {
//	    return err
//	}
//	df, err := frame.FromTable(table, nil)
//	if err != nil {
//	    return err
//	}
//	median, err := df.Median("price")
//
// Command line:
//
//	framestat head sales.csv --sep ';' -n 10
//	framestat describe sales.csv --date day=%Y-%m-%d --json
//	framestat quantile price 0.25 0.5 0.75 -f sales.csv
//
// # Package Organization
//
//	pkg/columnar      - Typed columns, cell values and Arrow export
//	pkg/schema        - Column type inference and datetime parsing
//	pkg/ingest        - Delimited file reader
//	pkg/compression   - Streaming decompressors for compressed inputs
//	pkg/frame         - DataFrame, previews and summaries
//	pkg/stats         - Selection, statistics engine and result cache
//	pkg/config        - YAML configuration
//	pkg/errors        - Typed errors
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus counters and histograms
//	pkg/observability - OpenTelemetry tracing
//	cmd/framestat     - Command line interface
//
// # Configuration
//
// The CLI reads an optional YAML file (-c) and FRAMESTAT_* environment
// variables; flags win over both. See pkg/config for the file format.
package framestat
