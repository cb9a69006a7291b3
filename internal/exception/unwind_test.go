package exception

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnwinder_TryReturnsOwnResultWhenNoThrow(t *testing.T) {
	u := NewUnwinder()
	got := u.Try(func() Code { return OK })
	require.Equal(t, OK, got)
	require.Equal(t, 0, u.Depth())
}

func TestUnwinder_ThrowUnwindsToImmediateFrame(t *testing.T) {
	u := NewUnwinder()
	ran := false
	got := u.Try(func() Code {
		u.OnUnwind(func() { ran = true })
		u.Throw(Parse)
		return OK // unreachable
	})
	require.Equal(t, Parse, got)
	require.True(t, ran)
	require.Equal(t, 0, u.Depth())
}

func TestUnwinder_ThrowInNestedFrameStopsAtNearestTry(t *testing.T) {
	u := NewUnwinder()
	var order []string

	outer := u.Try(func() Code {
		u.OnUnwind(func() { order = append(order, "outer") })
		return u.Try(func() Code {
			u.OnUnwind(func() { order = append(order, "inner") })
			u.Throw(ModuleLoad)
			return OK
		})
	})

	require.Equal(t, ModuleLoad, outer)
	require.Equal(t, []string{"inner"}, order, "Throw targets the nearest Try; it must not run the outer frame's cleanup")
	require.Equal(t, 0, u.Depth())
}

func TestUnwinder_DepthTracksOpenFrames(t *testing.T) {
	u := NewUnwinder()
	require.Equal(t, 0, u.Depth())
	u.Try(func() Code {
		require.Equal(t, 1, u.Depth())
		return OK
	})
	require.Equal(t, 0, u.Depth())
}
