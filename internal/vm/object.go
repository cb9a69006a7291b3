// Package vm implements the EEL runtime core: the tagged value model, the
// object header and manual reference counting, weak references, the class
// registry and metamethod dispatch, and the engine state that ties them
// together. Everything the embedding API (package eel) and the decoupled
// interfaces (package api) expose is backed by a type here.
package vm

import (
	"fmt"

	"github.com/chille/eel/api"
)

// State is a point in the object lifetime state machine described by the
// runtime core spec: ALIVE -> DESTRUCTING -> {DEAD, ZOMBIE}.
type State int

const (
	// StateAlive means refcount > 0 and the object is usable.
	StateAlive State = iota
	// StateDestructing means the destructor is currently running.
	StateDestructing
	// StateZombie means the destructor refused; refcount stays 0 until the
	// next Disown attempt retries destruction.
	StateZombie
	// StateDead means the object's weak chain has been cleared, its class
	// refcount decremented, and its payload released. destroy sets it on
	// success, so a caller still holding the *Object can observe it.
	StateDead
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDestructing:
		return "destructing"
	case StateZombie:
		return "zombie"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// Object is the uniform header every heap object carries, followed by a
// class-specific payload. The engine never interprets Payload; it is
// opaque data the class's constructor/destructor/metamethods own.
type Object struct {
	classID  int
	refcount uint32
	state    State

	weakHead *weakrefNode

	// limboPrev/limboNext link this object into the engine's limbo list
	// while its destructor is running, so a re-entrant disown (including
	// one triggered by a cycle-breaking weakref) can still find it.
	limboPrev, limboNext *Object
	inLimbo              bool

	engine *Engine

	// Payload is class-specific state attached by the class's constructor.
	Payload interface{}
}

var _ api.Object = (*Object)(nil)

// ClassID implements api.Object.
func (o *Object) ClassID() int { return o.classID }

// Refcount implements api.Object.
func (o *Object) Refcount() uint32 { return o.refcount }

// State returns the object's current lifetime state.
func (o *Object) State() State { return o.state }

// String implements fmt.Stringer for diagnostics.
func (o *Object) String() string {
	name := "?"
	if o.engine != nil {
		if cd, ok := o.engine.classes.Lookup(o.classID); ok {
			name = cd.Name
		}
	}
	return fmt.Sprintf("<%s #%p refcount=%d state=%s>", name, o, o.refcount, o.state)
}

// alloc creates a fresh object of classID with refcount 1, per
// "eel_o_alloc": the class itself owns one reference to represent this
// instance (R3: class refcount includes one per instance).
func (e *Engine) alloc(classID int, payload interface{}) (*Object, error) {
	cd, ok := e.classes.Lookup(classID)
	if !ok {
		return nil, fmt.Errorf("eel: alloc: unknown class id %d", classID)
	}
	o := &Object{classID: classID, refcount: 1, state: StateAlive, engine: e, Payload: payload}
	cd.instanceRefcount++
	return o, nil
}

// Own increments o's refcount (own+1). Per the state machine, Own on a
// zombie object resurrects it back to ALIVE.
func (e *Engine) Own(o *Object) {
	if o == nil {
		return
	}
	o.refcount++
	if o.state == StateZombie {
		o.state = StateAlive
		e.removeFromLimbo(o)
		e.log.Debugf("eel: object %s resurrected by own+1", o)
	}
}

// Disown decrements o's refcount (own-1). At zero, the engine invokes the
// class destructor; see destroy for the full protocol.
func (e *Engine) Disown(o *Object) error {
	if o == nil {
		return nil
	}
	if o.state == StateZombie {
		// Double-destruct attempt on a zombie: retry destruction.
		return e.destroy(o)
	}
	if o.refcount == 0 {
		// Destroying an object already in limbo is a no-op (boundary
		// behavior from the testable-properties section).
		return nil
	}
	o.refcount--
	if o.refcount == 0 {
		return e.destroy(o)
	}
	return nil
}

// destroy runs the destruction protocol: invoke the destructor, honor
// refusal (zombie), or on success zero weakrefs, decrement the class
// refcount, and free. Ordering resolves an explicit Open Question: weakref
// zeroing happens before the class refcount decrement (see DESIGN.md).
func (e *Engine) destroy(o *Object) error {
	cd, ok := e.classes.Lookup(o.classID)
	if !ok {
		return fmt.Errorf("eel: destroy: unknown class id %d", o.classID)
	}

	o.state = StateDestructing
	e.addToLimbo(o)

	keep := false
	if cd.Destructor != nil {
		keep = !cd.Destructor(o)
	}

	if keep {
		o.state = StateZombie
		e.log.Debugf("eel: object %s destructor refused, zombified", o)
		return nil // stays in limbo; findable for the retry disown
	}

	e.removeFromLimbo(o)
	e.clearWeakrefs(o)
	cd.instanceRefcount--
	o.state = StateDead
	o.Payload = nil
	e.log.Debugf("eel: object class=%s freed", cd.Name)
	return nil
}

func (e *Engine) addToLimbo(o *Object) {
	if o.inLimbo {
		return
	}
	o.inLimbo = true
	o.limboNext = e.limboHead
	o.limboPrev = nil
	if e.limboHead != nil {
		e.limboHead.limboPrev = o
	}
	e.limboHead = o
}

func (e *Engine) removeFromLimbo(o *Object) {
	if !o.inLimbo {
		return
	}
	if o.limboPrev != nil {
		o.limboPrev.limboNext = o.limboNext
	} else {
		e.limboHead = o.limboNext
	}
	if o.limboNext != nil {
		o.limboNext.limboPrev = o.limboPrev
	}
	o.limboPrev, o.limboNext = nil, nil
	o.inLimbo = false
}

// InLimbo reports whether o is currently linked into the engine's limbo
// list (i.e. a destructor is running, or ran and refused).
func (o *Object) InLimbo() bool { return o.inLimbo }
