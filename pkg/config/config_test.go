package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/framestat/pkg/compression"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/schema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framestat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Input.IngestOptions()
	require.NoError(t, err)
	assert.Equal(t, ',', opts.Separator)
	assert.Equal(t, compression.Auto, opts.Compression)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	t.Setenv("FRAMESTAT_TEST_DIR", "/data")
	path := writeConfig(t, `
input:
  path: ${FRAMESTAT_TEST_DIR}/sales.csv
  separator: ";"
  header_offset: 2
  compression: zstd
columns:
  ordered_at:
    as_datetime: true
    format: "%d/%m/%Y"
  shipped_at:
    as_datetime: true
statistics:
  pivot: middle
logging:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/sales.csv", cfg.Input.Path)
	assert.Equal(t, 2, cfg.Input.HeaderOffset)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Encoding)

	opts, err := cfg.Input.IngestOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', opts.Separator)
	assert.Equal(t, compression.Zstd, opts.Compression)

	assert.Equal(t, map[string]schema.ColumnConfig{
		"ordered_at": {AsDatetime: true, DateFormat: "%d/%m/%Y"},
		"shipped_at": {AsDatetime: true},
	}, cfg.ColumnConfigs())

	pivot, err := cfg.Statistics.PivotFunc()
	require.NoError(t, err)
	assert.Equal(t, 3, pivot(7))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = Load(writeConfig(t, "input: [unclosed"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeConfig(t, "statistics:\n  pivot: median-of-three\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"long separator", func(c *Config) { c.Input.Separator = ";;" }},
		{"quote separator", func(c *Config) { c.Input.Separator = `"` }},
		{"negative offset", func(c *Config) { c.Input.HeaderOffset = -1 }},
		{"unknown compression", func(c *Config) { c.Input.Compression = "rar" }},
		{"unknown pivot", func(c *Config) { c.Statistics.Pivot = "best" }},
		{"format without datetime", func(c *Config) {
			c.Columns["a"] = schema.ColumnConfig{DateFormat: "%Y"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.True(t, errors.IsType(cfg.Validate(), errors.ErrorTypeConfig))
		})
	}
}

func TestSeparatorRune(t *testing.T) {
	for in, expected := range map[string]rune{"": ',', `\t`: '\t', "tab": '\t', "|": '|', "§": '§'} {
		r, err := InputConfig{Separator: in}.SeparatorRune()
		require.NoError(t, err, in)
		assert.Equal(t, expected, r, in)
	}
}

func TestForceDatetime(t *testing.T) {
	cfg := &Config{}
	cfg.ForceDatetime("when", "2006-01-02")
	assert.Equal(t, schema.ColumnConfig{AsDatetime: true, DateFormat: "2006-01-02"}, cfg.Columns["when"])

	configs := cfg.ColumnConfigs()
	configs["other"] = schema.ColumnConfig{}
	assert.Len(t, cfg.Columns, 1)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Input.Path = "in.csv"
	cfg.ForceDatetime("d", "")

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("FRAMESTAT_A", "x")
	assert.Equal(t, "x-x-", substituteEnvVars("${FRAMESTAT_A}-${FRAMESTAT_A}-${FRAMESTAT_UNSET_VAR}"))
	assert.Equal(t, "keep ${open", substituteEnvVars("keep ${open"))
}
