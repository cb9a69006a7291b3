package vm

import (
	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/exception"
)

// CastFunc converts src (an instance of the "from" class in the matrix
// cell it's registered under) into a Value of the "to" class.
type CastFunc func(src api.Value) (api.Value, error)

// CastMatrix is the 2-D square table of pairwise conversion callbacks
// described in §4.1: casters[from][to]. Rows and cells are created lazily
// by SetCast, so the matrix never needs a separate resize pass tied to
// class registration order.
type CastMatrix struct {
	rows map[int]map[int]CastFunc
}

func newCastMatrix() *CastMatrix {
	return &CastMatrix{rows: map[int]map[int]CastFunc{}}
}

// SetCast registers the conversion callback for from->to, overwriting any
// previous entry.
func (m *CastMatrix) SetCast(from, to int, fn CastFunc) {
	row, ok := m.rows[from]
	if !ok {
		row = map[int]CastFunc{}
		m.rows[from] = row
	}
	row[to] = fn
}

// Cast converts src, tagged with class "from", to class "to". When
// from==to and no explicit caster is registered, this returns src
// unmodified with no ownership side effect — the bare table lookup has no
// Engine to own+1 through. Callers holding an *Engine should use
// Engine.Cast instead, which routes this identity path through Engine.Copy
// so I1 holds even when no cast callback runs. An unregistered cell with
// from!=to fails with exception.CastFailed.
func (m *CastMatrix) Cast(src api.Value, from, to int) (api.Value, error) {
	if row, ok := m.rows[from]; ok {
		if fn, ok := row[to]; ok {
			return fn(src)
		}
	}
	if from == to {
		return src, nil
	}
	return api.Nil, exception.CastFailed.WithMessage("no cast registered from class %d to class %d", from, to)
}

// Cast is the Engine-level entry point for §4.1's cast(engine, src, dst,
// target_class): it delegates to the cast matrix, but routes the identity
// (from==to, no registered caster) path through Engine.Copy so the
// returned Value is independently owned rather than aliasing src, exactly
// like every other copy site in this package.
func (e *Engine) Cast(src api.Value, from, to int) (api.Value, error) {
	if row, ok := e.cast.rows[from]; ok {
		if fn, ok := row[to]; ok {
			return fn(src)
		}
	}
	if from == to {
		return e.Copy(src), nil
	}
	return api.Nil, exception.CastFailed.WithMessage("no cast registered from class %d to class %d", from, to)
}
