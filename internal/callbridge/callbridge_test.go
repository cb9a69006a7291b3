package callbridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chille/eel/api"
)

func TestCallByName_FixedArgumentsFlowThroughTheWindow(t *testing.T) {
	heap := NewHeap(16)
	exports := NewExports()
	exports.Register("add", Signature{Required: 2}, func(ctx context.Context, f Frame) int {
		a, _ := f.Arg(0).AsInt()
		b, _ := f.Arg(1).AsInt()
		f.SetResult(api.IntValue(a + b))
		return 0
	})

	result, err := CallByName(context.Background(), heap, exports, "add", []api.Value{api.IntValue(2), api.IntValue(5)})
	require.NoError(t, err)
	i, _ := result.AsInt()
	require.Equal(t, int64(7), i)
}

func TestCallByName_TooFewArgumentsIsRejectedBeforeInvoking(t *testing.T) {
	heap := NewHeap(16)
	exports := NewExports()
	called := false
	exports.Register("needs2", Signature{Required: 2}, func(ctx context.Context, f Frame) int {
		called = true
		return 0
	})

	_, err := CallByName(context.Background(), heap, exports, "needs2", []api.Value{api.IntValue(1)})
	require.Error(t, err)
	require.False(t, called)
}

func TestCallByName_VariadicTupleWidthMustDivideEvenly(t *testing.T) {
	heap := NewHeap(16)
	exports := NewExports()
	exports.Register("pairs", Signature{Required: 0, TupleWidth: 2}, func(ctx context.Context, f Frame) int {
		f.SetResult(api.IntValue(int64(f.Argc)))
		return 0
	})

	_, err := CallByName(context.Background(), heap, exports, "pairs",
		[]api.Value{api.IntValue(1), api.IntValue(2), api.IntValue(3)})
	require.Error(t, err)

	result, err := CallByName(context.Background(), heap, exports, "pairs",
		[]api.Value{api.IntValue(1), api.IntValue(2), api.IntValue(3), api.IntValue(4)})
	require.NoError(t, err)
	n, _ := result.AsInt()
	require.Equal(t, int64(4), n)
}

func TestCallByName_UnknownNameFails(t *testing.T) {
	heap := NewHeap(4)
	exports := NewExports()
	_, err := CallByName(context.Background(), heap, exports, "nope", nil)
	require.Error(t, err)
}

func TestHeap_TruncateReturnsToPriorSize(t *testing.T) {
	h := NewHeap(8)
	base := h.Reserve(3)
	h.Reserve(2)
	h.Truncate(base)
	require.Equal(t, base, h.Reserve(1))
}
