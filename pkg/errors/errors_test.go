package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesStack(t *testing.T) {
	err := New(ErrorTypeOutOfRange, "index out of range")

	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestNewCapturesStack")
	assert.Equal(t, "out_of_range: index out of range", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeMissingColumn, "column %q not found", "age")
	assert.Equal(t, `missing_column: column "age" not found`, err.Error())
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeOutOfRange, "index out of range").
		WithDetail("index", 7).
		WithDetail("len", 3)

	assert.Equal(t, map[string]interface{}{"index": 7, "len": 3}, err.Details)
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrorTypeFile, "unused"))
	})

	t.Run("keeps stack of structured cause", func(t *testing.T) {
		inner := New(ErrorTypeInvalidColumnType, "bad date")
		outer := Wrap(inner, ErrorTypeValidation, "frame construction failed")

		assert.Equal(t, inner.Stack, outer.Stack)
		assert.True(t, stderrors.Is(outer, inner))
	})

	t.Run("plain cause", func(t *testing.T) {
		outer := Wrap(io.EOF, ErrorTypeFile, "read failed")

		assert.True(t, stderrors.Is(outer, io.EOF))
		assert.NotEmpty(t, outer.Stack)
	})
}

func TestIsTypeAndGetType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{"direct", New(ErrorTypeEmptyColumn, "empty"), ErrorTypeEmptyColumn, true},
		{"other type", New(ErrorTypeEmptyColumn, "empty"), ErrorTypeInvalidQuantile, false},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrorTypeMissingColumn, "x")), ErrorTypeMissingColumn, true},
		{"plain", io.EOF, ErrorTypeFile, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsType(tt.err, tt.errType))
		})
	}

	assert.Equal(t, ErrorTypeInternal, GetType(io.EOF))
	assert.Equal(t, ErrorTypeUnimplemented, GetType(New(ErrorTypeUnimplemented, "x")))
}
