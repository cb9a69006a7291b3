package vm

import (
	"github.com/chille/eel/api"
)

// shortStringClassName is the engine-internal class registered at Open
// time so metamethod dispatch and object keys (auto-interned string keys,
// §4.2) have a uniform objref representation. It is a minimal carrier —
// not the full String class §1 places out of scope for built-in classes —
// used only for interning.
const shortStringClassName = "eel.shortstring"

// ShortStringPayload is the payload of an interned short-string object.
type ShortStringPayload struct {
	Value string
}

// StringPool is the engine's interned short-string pool (§3 Engine State).
// Interning is idempotent: requesting the same content twice returns the
// same *Object (with its refcount bumped), so equal strings compare equal
// by identity as well as by value.
type StringPool struct {
	classID int
	byValue map[string]*Object
}

func newStringPool(classID int) *StringPool {
	return &StringPool{classID: classID, byValue: map[string]*Object{}}
}

// Intern returns an owning objref Value for s, allocating a new pooled
// object on first use and bumping the refcount of the existing one
// otherwise (via Engine.Copy, so the repeat-intern path enforces I1 the
// same way every other value copy does).
func (p *StringPool) Intern(e *Engine, s string) api.Value {
	if o, ok := p.byValue[s]; ok {
		return e.Copy(api.NewObjRef(o))
	}
	o, err := e.alloc(p.classID, &ShortStringPayload{Value: s})
	if err != nil {
		// The short-string class is registered unconditionally at Open;
		// alloc can only fail here if Open was skipped.
		panic(err)
	}
	p.byValue[s] = o
	return api.NewObjRef(o)
}

// forget removes s's pool entry once its last owning reference is gone.
// Called from the short-string class's destructor.
func (p *StringPool) forget(s string) {
	delete(p.byValue, s)
}

// registerShortStringClass installs the engine-internal interned string
// class and returns its id.
func registerShortStringClass(t *ClassTable, pool **StringPool) (int, error) {
	cd, err := t.Register(shortStringClassName, -1)
	if err != nil {
		return 0, err
	}
	cd.Destructor = func(obj api.Object) bool {
		o := obj.(*Object)
		if sp, ok := o.Payload.(*ShortStringPayload); ok && *pool != nil {
			(*pool).forget(sp.Value)
		}
		return true
	}
	return cd.ID, nil
}
