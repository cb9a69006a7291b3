package vm

import (
	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/exception"
)

// OperatorFunc is the callback shape stored in every arithmetic, index, and
// equality metamethod slot (MMLength and MMCompare use LengthFunc and
// CompareFunc instead). It receives the receiving object and up to
// two operands, and writes its result by return value — the caller is
// responsible for owning whatever it stores (the dispatch contract's
// "must own any object it stores into the result slot").
type OperatorFunc func(obj *Object, operand1, operand2 api.Value) (api.Value, exception.Code)

// LengthFunc backs api.MMLength.
type LengthFunc func(obj *Object) (int, exception.Code)

// CompareFunc backs api.MMCompare, returning an integer sign.
type CompareFunc func(obj *Object, other api.Value) (int, exception.Code)

// dispatch looks up the metamethod for mm on obj's class and invokes it.
// Unset slots yield exception.NoMetamethod and leave the result
// unmodified (P7).
func (e *Engine) dispatch(obj *Object, mm api.MetamethodIndex, op1, op2 api.Value) (api.Value, exception.Code) {
	cd, ok := e.classes.Lookup(obj.classID)
	if !ok {
		return api.Nil, exception.BadClass
	}
	cb := cd.Metamethod(mm)
	if cb == nil {
		return api.Nil, exception.NoMetamethod
	}
	fn, ok := cb.(OperatorFunc)
	if !ok {
		return api.Nil, exception.Internal
	}
	return fn(obj, op1, op2)
}

// Length invokes MMLength on obj.
func (e *Engine) Length(obj *Object) (int, exception.Code) {
	cd, ok := e.classes.Lookup(obj.classID)
	if !ok {
		return 0, exception.BadClass
	}
	cb := cd.Metamethod(api.MMLength)
	if cb == nil {
		return 0, exception.NoMetamethod
	}
	fn, ok := cb.(LengthFunc)
	if !ok {
		return 0, exception.Internal
	}
	return fn(obj)
}

// Get invokes MMGetIndex with key, the generic form behind GetByInt and
// GetByString.
func (e *Engine) Get(obj *Object, key api.Value) (api.Value, exception.Code) {
	return e.dispatch(obj, api.MMGetIndex, key, api.Nil)
}

// GetByInt wraps Get for an integer key.
func (e *Engine) GetByInt(obj *Object, i int64) (api.Value, exception.Code) {
	return e.Get(obj, api.IntValue(i))
}

// GetByString wraps Get for a string key. The string is interned into the
// short-string pool, passed as an objref, and released after the call, as
// the spec's "handy wrappers" section requires.
func (e *Engine) GetByString(obj *Object, s string) (api.Value, exception.Code) {
	key := e.strings.Intern(e, s)
	defer e.Disown(asObject(key))
	return e.Get(obj, key)
}

// Set invokes MMSetIndex(obj, key, value).
func (e *Engine) Set(obj *Object, key, value api.Value) exception.Code {
	_, code := e.dispatch(obj, api.MMSetIndex, key, value)
	return code
}

// SetByInt wraps Set for an integer key.
func (e *Engine) SetByInt(obj *Object, i int64, value api.Value) exception.Code {
	return e.Set(obj, api.IntValue(i), value)
}

// SetByString wraps Set for a string key.
func (e *Engine) SetByString(obj *Object, s string, value api.Value) exception.Code {
	key := e.strings.Intern(e, s)
	defer e.Disown(asObject(key))
	return e.Set(obj, key, value)
}

// Delete invokes MMDelete(obj, key).
func (e *Engine) Delete(obj *Object, key api.Value) exception.Code {
	_, code := e.dispatch(obj, api.MMDelete, key, api.Nil)
	return code
}

// Insert invokes MMInsert(obj, key, value).
func (e *Engine) Insert(obj *Object, key, value api.Value) exception.Code {
	_, code := e.dispatch(obj, api.MMInsert, key, value)
	return code
}

// Compare invokes MMCompare and returns its integer sign. COMPARE is the
// basis for the derived >, >=, <, <= operators.
func (e *Engine) Compare(obj *Object, other api.Value) (int, exception.Code) {
	cd, ok := e.classes.Lookup(obj.classID)
	if !ok {
		return 0, exception.BadClass
	}
	cb := cd.Metamethod(api.MMCompare)
	if cb == nil {
		return 0, exception.NoMetamethod
	}
	fn, ok := cb.(CompareFunc)
	if !ok {
		return 0, exception.Internal
	}
	return fn(obj, other)
}

// Greater, GreaterEqual, Less, LessEqual are derived strictly from
// Compare's sign, per the spec's comparison semantics.
func (e *Engine) Greater(obj *Object, other api.Value) (bool, exception.Code) {
	sign, code := e.Compare(obj, other)
	return sign > 0, code
}

func (e *Engine) GreaterEqual(obj *Object, other api.Value) (bool, exception.Code) {
	sign, code := e.Compare(obj, other)
	return sign >= 0, code
}

func (e *Engine) Less(obj *Object, other api.Value) (bool, exception.Code) {
	sign, code := e.Compare(obj, other)
	return sign < 0, code
}

func (e *Engine) LessEqual(obj *Object, other api.Value) (bool, exception.Code) {
	sign, code := e.Compare(obj, other)
	return sign <= 0, code
}

// Min and Max select the left (receiving) value on ties, exactly as the
// spec requires.
func (e *Engine) Min(obj *Object, objValue, other api.Value) (api.Value, exception.Code) {
	sign, code := e.Compare(obj, other)
	if code != exception.OK {
		return api.Nil, code
	}
	if sign <= 0 {
		return objValue, exception.OK
	}
	return other, exception.OK
}

func (e *Engine) Max(obj *Object, objValue, other api.Value) (api.Value, exception.Code) {
	sign, code := e.Compare(obj, other)
	if code != exception.OK {
		return api.Nil, code
	}
	if sign >= 0 {
		return objValue, exception.OK
	}
	return other, exception.OK
}

// Eq invokes the separate MMEq metamethod: equality is defined
// independently of COMPARE so classes without a total order can still
// support it.
func (e *Engine) Eq(obj *Object, other api.Value) (bool, exception.Code) {
	v, code := e.dispatch(obj, api.MMEq, other, api.Nil)
	if code != exception.OK {
		return false, code
	}
	return v.AsBool(), exception.OK
}

// Ne is simply !Eq.
func (e *Engine) Ne(obj *Object, other api.Value) (bool, exception.Code) {
	eq, code := e.Eq(obj, other)
	return !eq, code
}

// In implements `k IN container`: attempt GETINDEX on container with key
// k. Success means true, and per the spec the retrieved value is
// discarded and disowned; failure means false, not an error.
func (e *Engine) In(container *Object, k api.Value) bool {
	v, code := e.Get(container, k)
	if code != exception.OK {
		return false
	}
	if v.Tag() == api.TagObjRef {
		e.Disown(asObject(v))
	}
	return true
}

// Truthy implements the boolean-operator rules: any object counts as
// true, without invoking metamethods. Only a nil Value, a zero scalar, or
// an unwired weakref (one whose target is gone) are false.
func Truthy(v api.Value) bool {
	if v.Tag() == api.TagWeakRef {
		n, ok := v.Handle().(*weakrefNode)
		return ok && n != nil && !n.unwired && n.target != nil
	}
	return v.AsBool()
}

// And, Or, Xor implement `OBJECT AND x`, `OBJECT OR x`, `OBJECT XOR x`
// exactly as specified: the left object's truthiness is always true, so
// these reduce to a function of the right operand alone and never invoke
// a metamethod.
func And(x api.Value) bool { return Truthy(x) }
func Or(api.Value) bool    { return true }
func Xor(x api.Value) bool { return !Truthy(x) }

// asObject recovers the *Object handle from an objref Value. It panics if
// v is not an objref: callers must check v.Tag() first, matching the
// "undefined if payload without tag" invariant (I3).
func asObject(v api.Value) *Object {
	if v.Tag() != api.TagObjRef {
		return nil
	}
	o, _ := v.Handle().(*Object)
	return o
}
