package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/framestat/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("id,price,name\n1,2.5,widget\n2,3.75,gadget\n"), 200)

	algorithms := []Algorithm{None, Gzip, Deflate, Zstd, Snappy, S2, LZ4}
	levels := []Level{Fastest, Default, Better, Best}

	for _, alg := range algorithms {
		for _, level := range levels {
			t.Run(string(alg)+"/"+level.String(), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = w.Write(original)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(original))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				defer r.Close()

				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, original, got)
			})
		}
	}
}

func TestAlgorithmFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Algorithm
	}{
		{"data.csv", None},
		{"data.csv.gz", Gzip},
		{"DATA.CSV.GZ", Gzip},
		{"data.csv.zst", Zstd},
		{"data.csv.sz", Snappy},
		{"data.csv.s2", S2},
		{"data.csv.lz4", LZ4},
		{"data.zz", Deflate},
		{"noext", None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, AlgorithmFromPath(tt.path), tt.path)
	}
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, Auto, alg)

	alg, err = ParseAlgorithm(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	assert.Equal(t, Gzip, Auto.Resolve("x.csv.gz"))
	assert.Equal(t, LZ4, LZ4.Resolve("x.csv.gz"))
}

func TestNewReaderRejectsGarbage(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("plain text")), Gzip)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = NewReader(bytes.NewReader(nil), Algorithm("brotli"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewWriter(io.Discard, Auto, Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
