package exception

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := DivByZero.AsError()
	tests := []struct {
		name    string
		target  error
		matches bool
	}{
		{"same code", DivByZero.AsError(), true},
		{"same code with message", DivByZero.WithMessage("x/0"), true},
		{"different code", Overflow.AsError(), false},
		{"different error type", errors.New("div by zero"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.matches, errors.Is(err, tt.target))
		})
	}
}

func TestCode_AsError_OKIsNil(t *testing.T) {
	require.NoError(t, OK.AsError())
}

func TestError_Error(t *testing.T) {
	t.Run("no message falls back to description", func(t *testing.T) {
		err := DivByZero.AsError()
		require.EqualError(t, err, "DIV_BY_ZERO: division by zero")
	})
	t.Run("with message", func(t *testing.T) {
		err := HighIndex.WithMessage("index %d >= length %d", 5, 3)
		require.EqualError(t, err, "HIGH_INDEX: index 5 >= length 3")
	})
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(DivByZero.WithMessage("boom"))
	require.True(t, ok)
	require.Equal(t, DivByZero, code)

	code, ok = CodeOf(nil)
	require.True(t, ok)
	require.Equal(t, OK, code)

	_, ok = CodeOf(errors.New("not ours"))
	require.False(t, ok)
}
