package vm

import (
	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/exception"
)

// arithmeticSlots lists the binary operator metamethods in the fixed
// enum order; Arithmetic dispatches through this table rather than a
// switch per call site.
var arithmeticSlots = map[string]api.MetamethodIndex{
	"add": api.MMAdd, "sub": api.MMSub, "mul": api.MMMul,
	"div": api.MMDiv, "mod": api.MMMod, "pow": api.MMPower,
}

// Arithmetic applies op (one of "add","sub","mul","div","mod","pow")
// between left and right. When left is an object, dispatch is forward:
// the metamethod receives (left, right). When left is not an object but
// right is, the engine selects reverse dispatch, handing the metamethod
// (right, left) instead — the spec's "reverse operations mirror forward
// ones for <non-object> op <object>".
func (e *Engine) Arithmetic(op string, left, right api.Value) (api.Value, exception.Code) {
	mm, ok := arithmeticSlots[op]
	if !ok {
		return api.Nil, exception.Illegal
	}
	if left.Tag() == api.TagObjRef {
		return e.dispatch(asObject(left), mm, right, api.Nil)
	}
	if right.Tag() == api.TagObjRef {
		return e.dispatch(asObject(right), mm, left, api.Nil)
	}
	return api.Nil, exception.NeedObject
}
