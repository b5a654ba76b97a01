package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/schema"
)

func TestDisplayRange(t *testing.T) {
	df := sampleFrame(t)

	cols, err := df.DisplayRange(1, 3)
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, DisplayColumn{Name: "id", Cells: []string{"2", "3"}, Width: 2}, cols[0])
	assert.Equal(t, DisplayColumn{Name: "name", Cells: []string{"bb", "ccc"}, Width: 4}, cols[2])
	assert.Equal(t, "2024-01-02 00:00:00", cols[3].Cells[0])

	for _, r := range [][2]int{{-1, 1}, {0, 5}, {3, 2}} {
		_, err := df.DisplayRange(r[0], r[1])
		assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange), "%v", r)
	}
}

func TestFormat(t *testing.T) {
	df, err := New([]schema.RawColumn{
		{Name: "id", Cells: []string{"1", "22", "333"}},
		{Name: "label", Cells: []string{"x", "yy", "longer"}},
	}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	out, err := df.Format(0, 3)
	require.NoError(t, err)
	assert.Equal(t, ""+
		"id , label \n"+
		"1  , x     \n"+
		"22 , yy    \n"+
		"333, longer\n", out)

	out, err = df.Format(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "id, label\n", out)
}

func TestFormatCountsRunes(t *testing.T) {
	df, err := New([]schema.RawColumn{
		{Name: "c", Cells: []string{"héé", "a"}},
		{Name: "d", Cells: []string{"1", "2"}},
	}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	out, err := df.Format(0, 2)
	require.NoError(t, err)
	assert.Equal(t, "c  , d\nhéé, 1\na  , 2\n", out)
}

func TestHead(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Head(2)
	require.NoError(t, err)
	expected, err := df.Format(0, 2)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	_, err = df.Head(0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange), "default of 5 rows exceeds 4")

	_, err = df.Head(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	_, err = df.Head(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestHeadDefaultRows(t *testing.T) {
	df, err := New([]schema.RawColumn{
		{Name: "n", Cells: []string{"1", "2", "3", "4", "5", "6"}},
	}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	out, err := df.Head(0)
	require.NoError(t, err)
	expected, err := df.Format(0, DefaultHeadRows)
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}
