package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSBufferPool_AllocRotatesThroughFreeSlots(t *testing.T) {
	p := newSBufferPool()
	var got []*SBuffer
	for i := 0; i < sbufCount; i++ {
		got = append(got, p.Alloc(nil))
	}
	seen := map[*SBuffer]bool{}
	for _, s := range got {
		require.False(t, seen[s], "each of the N slots should be distinct before any Free")
		seen[s] = true
	}
}

func TestSBufferPool_FreeMakesASlotReusable(t *testing.T) {
	p := newSBufferPool()
	first := p.Alloc(nil)
	p.Free(first)
	for i := 0; i < sbufCount-1; i++ {
		p.Alloc(nil)
	}
	require.Same(t, first, p.Alloc(nil))
}

type recordingWarner struct{ warnings int }

func (w *recordingWarner) Warnf(format string, args ...interface{}) { w.warnings++ }

func TestSBufferPool_ExhaustionForciblyReclaimsOldestAndWarns(t *testing.T) {
	p := newSBufferPool()
	w := &recordingWarner{}
	for i := 0; i < sbufCount; i++ {
		p.Alloc(w)
	}
	require.Equal(t, 0, w.warnings)

	p.Alloc(w) // one past the ring's capacity with nothing freed
	require.Equal(t, 1, w.warnings)
}

func TestEngine_FormatTruncatesToBufferSize(t *testing.T) {
	e := newTestEngine(t)
	got := e.Format("%s", fmt.Sprintf("%0300d", 0))
	require.LessOrEqual(t, len(got), sbufSize)
}
