// Package config defines the framestat configuration file.
//
// A configuration describes where the delimited input lives and how to read
// it, which columns are forced to parse as datetimes, which pivot strategy
// the statistics engine uses, and how logging is set up:
//
//	input:
//	  path: ${DATA_DIR}/sales.csv.gz
//	  separator: ";"
//	  header_offset: 1
//	columns:
//	  ordered_at:
//	    as_datetime: true
//	    format: "%d/%m/%Y"
//	statistics:
//	  pivot: random
//	logging:
//	  level: info
package config

import (
	"strings"
	"unicode/utf8"

	"github.com/ajitpratap0/framestat/pkg/compression"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/ingest"
	"github.com/ajitpratap0/framestat/pkg/logger"
	"github.com/ajitpratap0/framestat/pkg/schema"
	"github.com/ajitpratap0/framestat/pkg/stats"
)

// Pivot strategy names accepted in statistics.pivot.
const (
	PivotRandom = "random"
	PivotMiddle = "middle"
	PivotFirst  = "first"
)

// Config is the root of a framestat configuration file.
type Config struct {
	Input      InputConfig                    `yaml:"input" json:"input"`
	Columns    map[string]schema.ColumnConfig `yaml:"columns" json:"columns"`
	Statistics StatisticsConfig               `yaml:"statistics" json:"statistics"`
	Logging    logger.Config                  `yaml:"logging" json:"logging"`
}

// InputConfig describes the delimited source.
type InputConfig struct {
	Path string `yaml:"path" json:"path"`
	// Separator is a single character; tab may be written as "\t".
	Separator    string `yaml:"separator" json:"separator"`
	HeaderOffset int    `yaml:"header_offset" json:"header_offset"`
	// Compression is auto, none, gzip, deflate, zstd, snappy, s2 or lz4.
	Compression string `yaml:"compression" json:"compression"`
}

// StatisticsConfig tunes the statistics engine.
type StatisticsConfig struct {
	Pivot string `yaml:"pivot" json:"pivot"`
}

// Default returns a configuration reading comma separated, auto-detected
// compression input with a random pivot.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Separator:   ",",
			Compression: string(compression.Auto),
		},
		Columns: make(map[string]schema.ColumnConfig),
		Statistics: StatisticsConfig{
			Pivot: PivotRandom,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Validate checks the values a run depends on. It does not require
// Input.Path since the CLI may supply it separately.
func (c *Config) Validate() error {
	if _, err := c.Input.SeparatorRune(); err != nil {
		return err
	}
	if c.Input.HeaderOffset < 0 {
		return errors.New(errors.ErrorTypeConfig, "header_offset cannot be negative").
			WithDetail("header_offset", c.Input.HeaderOffset)
	}
	if _, err := compression.ParseAlgorithm(c.Input.Compression); err != nil {
		return err
	}
	if _, err := c.Statistics.PivotFunc(); err != nil {
		return err
	}
	for name, col := range c.Columns {
		if col.DateFormat != "" && !col.AsDatetime {
			return errors.New(errors.ErrorTypeConfig, "format is only used together with as_datetime").
				WithDetail("column", name)
		}
	}
	return nil
}

// SeparatorRune returns the separator as a single rune. Empty means comma.
func (i InputConfig) SeparatorRune() (rune, error) {
	sep := i.Separator
	switch sep {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(sep) != 1 {
		return 0, errors.New(errors.ErrorTypeConfig, "separator must be a single character").
			WithDetail("separator", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	if r == '\r' || r == '\n' || r == '"' || r == utf8.RuneError {
		return 0, errors.New(errors.ErrorTypeConfig, "separator cannot be a quote or line break").
			WithDetail("separator", sep)
	}
	return r, nil
}

// IngestOptions converts the input section into reader options.
func (i InputConfig) IngestOptions() (ingest.Options, error) {
	sep, err := i.SeparatorRune()
	if err != nil {
		return ingest.Options{}, err
	}
	alg, err := compression.ParseAlgorithm(i.Compression)
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		Separator:    sep,
		HeaderOffset: i.HeaderOffset,
		Compression:  alg,
	}, nil
}

// PivotFunc resolves the configured pivot strategy. Empty means random.
func (s StatisticsConfig) PivotFunc() (stats.PivotFunc, error) {
	switch strings.ToLower(s.Pivot) {
	case "", PivotRandom:
		return stats.RandomPivot, nil
	case PivotMiddle:
		return stats.MiddlePivot, nil
	case PivotFirst:
		return stats.FirstPivot, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown pivot strategy %q", s.Pivot)
	}
}

// ColumnConfigs returns a copy of the per-column overrides.
func (c *Config) ColumnConfigs() map[string]schema.ColumnConfig {
	out := make(map[string]schema.ColumnConfig, len(c.Columns))
	for name, col := range c.Columns {
		out[name] = col
	}
	return out
}

// ForceDatetime marks column as datetime with an optional format, replacing
// any previous override.
func (c *Config) ForceDatetime(column, format string) {
	if c.Columns == nil {
		c.Columns = make(map[string]schema.ColumnConfig)
	}
	c.Columns[column] = schema.ColumnConfig{AsDatetime: true, DateFormat: format}
}
