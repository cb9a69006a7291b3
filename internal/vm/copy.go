package vm

import (
	"strconv"

	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/exception"
)

// Copy implements §4.1's copy(dst, src) value operation: the single place
// I1 ("every copy of an owning value must be accompanied by own+1; every
// destruction by own-1") is enforced. An objref copy owns+1 the target; a
// weakref copy attaches a fresh, independently detachable node to the same
// target rather than aliasing the source node, so each copy's Disown
// unlinks only its own node. Every other tag has no ownership to track and
// copies by value.
//
// Every internal copy site that duplicates an owning api.Value — the
// string pool's repeat-intern path, a weakref's Deref, the cast matrix's
// identity conversion — routes through this method instead of hand-rolling
// Own/MakeWeakRef, so a future ownership bug has one place to fix.
func (e *Engine) Copy(src api.Value) api.Value {
	switch src.Tag() {
	case api.TagObjRef:
		o := asObject(src)
		e.Own(o)
		return api.NewObjRef(o)
	case api.TagWeakRef:
		n, ok := src.Handle().(*weakrefNode)
		if !ok || n == nil || n.unwired || n.target == nil {
			// I2: the reference itself stays valid (not nil) until
			// detached, even once its target is gone — so the copy is a
			// new, independently detachable dead node, not api.Nil.
			return api.NewWeakRef(&weakrefNode{unwired: false})
		}
		return e.MakeWeakRef(n.target)
	default:
		return src
	}
}

// Clone is the embedding API's name for Copy (§6 lists "clone" among the
// host-visible value operations, alongside own/disown); it is a plain
// alias kept separate so call sites can spell whichever name matches the
// vocabulary they're already using.
func (e *Engine) Clone(src api.Value) api.Value { return e.Copy(src) }

// AsString implements §4.1's as_string scalar accessor. Scalars render
// directly; an objref invokes the class's registered cast to the engine's
// interned short-string class through the cast matrix — never the
// diagnostic Value.String(), which exists for %v formatting and falls
// back to "<object>" when a class has no Stringer-friendly payload.
func (e *Engine) AsString(v api.Value) (string, exception.Code) {
	switch v.Tag() {
	case api.TagNil:
		return "nil", exception.OK
	case api.TagInteger:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), exception.OK
	case api.TagReal:
		f, _ := v.AsReal()
		return strconv.FormatFloat(f, 'g', -1, 64), exception.OK
	case api.TagBoolean:
		return strconv.FormatBool(v.AsBool()), exception.OK
	case api.TagTypeID, api.TagClassID:
		id, _ := v.AsInt()
		cd, ok := e.classes.Lookup(int(id))
		if !ok {
			return "", exception.BadClass
		}
		return cd.Name, exception.OK
	case api.TagObjRef:
		o := asObject(v)
		if o == nil {
			return "", exception.NeedObject
		}
		cast, err := e.Cast(v, o.classID, e.stringClassID)
		if err != nil {
			return "", exception.CastFailed
		}
		defer e.Disown(asObject(cast))
		sp, ok := asObject(cast).Payload.(*ShortStringPayload)
		if !ok {
			return "", exception.Internal
		}
		return sp.Value, exception.OK
	case api.TagWeakRef:
		return "", exception.NeedObject
	default:
		return "", exception.Illegal
	}
}
