// Package api includes constants and interfaces used by both end-users and
// internal implementations of the EEL runtime core.
package api

import (
	"context"
	"fmt"
)

// Tag discriminates the variant held by a Value. A Value's payload is only
// meaningful in combination with its Tag; see Value for the full set of
// invariants this implies.
type Tag = byte

const (
	// TagNil represents the unit absence of value.
	TagNil Tag = iota
	// TagReal is an IEEE 754 double.
	TagReal
	// TagInteger is a signed machine integer.
	TagInteger
	// TagBoolean is encoded as integer 0/1 but carries a distinct tag so
	// conversions can distinguish "true" from "1".
	TagBoolean
	// TagTypeID names a class by its small integer index; printable.
	TagTypeID
	// TagObjRef is an owning reference to an Object. Every copy must be
	// paired with Own, every destruction with Disown.
	TagObjRef
	// TagWeakRef is a non-owning reference to an Object. It stays valid
	// after the target is destroyed, but Deref then yields nil.
	TagWeakRef
	// TagClassID tags "a class referred to by value" (§3): the class
	// object itself, passed around as a first-class value (e.g. to a
	// constructor expecting a class argument, or to cast-matrix
	// registration), distinct from TagTypeID's "this instance's type".
	TagClassID
)

// TagName returns the short, stable name of a Tag, used in diagnostics.
func TagName(t Tag) string {
	switch t {
	case TagNil:
		return "nil"
	case TagReal:
		return "real"
	case TagInteger:
		return "integer"
	case TagBoolean:
		return "boolean"
	case TagTypeID:
		return "typeid"
	case TagObjRef:
		return "objref"
	case TagWeakRef:
		return "weakref"
	case TagClassID:
		return "classid"
	}
	return fmt.Sprintf("tag(%#x)", t)
}

// MetamethodIndex is a stable, fixed-order enum of operator slots a
// ClassDescriptor may implement. Unset slots yield exception.NoMetamethod
// from dispatch.
type MetamethodIndex int

const (
	MMLength MetamethodIndex = iota
	MMGetIndex
	MMSetIndex
	MMDelete
	MMInsert
	MMEq
	MMCompare
	MMIn
	MMAdd
	MMSub
	MMMul
	MMDiv
	MMMod
	MMPower
	MMCast
	mmCount
)

// MetamethodCount is the number of entries in the fixed metamethod enum.
func MetamethodCount() int { return int(mmCount) }

// Object is the host-visible handle to a heap-allocated, reference-counted
// engine object. Concrete state lives in internal/vm; Object only exposes
// what a host embedder is entitled to see.
//
// This is an interface for decoupling, not third-party implementations. All
// implementations live inside this module.
type Object interface {
	fmt.Stringer

	// ClassID returns the index into the engine's class table identifying
	// this object's class.
	ClassID() int

	// Refcount returns the current reference count. Zero means the object
	// is queued for, or currently undergoing, destruction.
	Refcount() uint32
}

// Module is a named bundle of exports (classes, functions, constants) owned
// by an engine's module registry.
type Module interface {
	// Name is the name this module was created or loaded with.
	Name() string

	// ID is the monotonically increasing identifier assigned at creation.
	ID() uint64

	// ExportedFunction returns a function exported from this module, or nil.
	ExportedFunction(name string) Function

	// Close marks the module closed, so registry lookups stop resolving it
	// (the stale entry is pruned lazily by the next lookup or sweep). It
	// does not invoke the module's unload callback; that callback runs with
	// closing=true when the owning Runtime closes, if the entry has not been
	// pruned by then.
	Close(ctx context.Context) error
}

// Function is a callable exported from a Module, either a script-defined
// callable supplied by the compiler collaborator, or a host function
// registered through ClassBuilder/ModuleBuilder.
type Function interface {
	// Call invokes the function with the given argument values, returning
	// the result tuple. Ownership of any objref result is transferred to
	// the caller.
	Call(ctx context.Context, args ...Value) ([]Value, error)
}

// GoFunction is the low-level calling convention for a host function: it
// reads its arguments from argv and writes its result into resv, returning
// a nonzero exception code on failure. This mirrors the heap/argv/resv
// convention described for the call bridge.
type GoFunction func(ctx context.Context, heap []Value, argv, argc, resv uint32) int

// ClassConstructor builds a new instance's payload given constructor
// arguments. It returns the constructed Value (normally an objref) or a
// nonzero exception code.
type ClassConstructor func(ctx context.Context, classID int, initv []Value) (Value, int)

// ClassDestructor runs when an instance's refcount reaches zero. Returning
// false ("refuse") resurrects the object as a zombie; see the object
// lifetime state machine.
type ClassDestructor func(obj Object) bool
