package vm

import "fmt"

const (
	sbufCount = 16
	sbufSize  = 256
)

// SBuffer is one scratch slot from the engine's sbuffer pool, sized for
// error formatting and name lookups without heap churn.
type SBuffer struct {
	buf  [sbufSize]byte
	free bool
}

// Bytes returns the buffer's backing array as a slice, truncated to n.
func (s *SBuffer) Bytes(n int) []byte {
	if n > sbufSize {
		n = sbufSize
	}
	return s.buf[:n]
}

// SBufferPool is the fixed ring of N=16 scratch buffers described in
// §4.8: sbuf_alloc rotates to the oldest free slot, sbuf_free marks a
// slot free again. Exceeding the ring forcibly reclaims the oldest slot
// in use and logs a warning, rather than growing — the pool is sized so
// ordinary nested error formatting never exceeds it.
type SBufferPool struct {
	slots [sbufCount]*SBuffer
	next  int
}

func newSBufferPool() *SBufferPool {
	p := &SBufferPool{}
	for i := range p.slots {
		p.slots[i] = &SBuffer{free: true}
	}
	return p
}

// Alloc returns the next free slot, or forcibly reclaims the oldest slot
// in the ring if all are in use.
func (p *SBufferPool) Alloc(log warner) *SBuffer {
	start := p.next
	for i := 0; i < sbufCount; i++ {
		idx := (start + i) % sbufCount
		if p.slots[idx].free {
			p.slots[idx].free = false
			p.next = (idx + 1) % sbufCount
			return p.slots[idx]
		}
	}
	// Ring exhausted: reclaim the oldest slot outright.
	idx := start
	if log != nil {
		log.Warnf("eel: sbuffer pool exhausted, forcibly reclaiming slot %d", idx)
	}
	p.next = (idx + 1) % sbufCount
	return p.slots[idx]
}

// Free returns s to the pool.
func (p *SBufferPool) Free(s *SBuffer) { s.free = true }

// warner is the subset of logrus.FieldLogger the sbuffer pool needs,
// kept narrow so it doesn't have to import logrus just for a type name.
type warner interface {
	Warnf(format string, args ...interface{})
}

// Format is a convenience wrapper: allocate a slot, render format/args
// into it with fmt.Sprintf, free it, and return the resulting string.
// Most callers don't need to hold the slot open, so this is the common
// path; callers needing the raw bytes use Alloc/Free directly.
func (e *Engine) Format(format string, args ...interface{}) string {
	s := e.sbufs.Alloc(e.log)
	defer e.sbufs.Free(s)
	n := copy(s.buf[:], fmt.Sprintf(format, args...))
	return string(s.Bytes(n))
}
