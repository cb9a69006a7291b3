// Package callbridge implements the host<->script call convention
// described by the spec's §4.7: a shared heap of value slots, an
// argv/argc/resv window for each call, and variadic tuple signatures
// packed contiguously after fixed arguments. It mirrors the stack-based
// calling convention the teacher uses for GoModuleFunction (params and
// results packed into a single []uint64 "stack"), generalized from a
// single flat uint64 stack to an explicit heap plus named windows since
// EEL's Value is a multi-word tagged union, not a raw scalar.
package callbridge

import (
	"context"
	"fmt"

	"github.com/chille/eel/api"
)

// Signature describes a callable's fixed and variadic argument shape:
// required fixed arguments, optional fixed arguments, and the width of
// each trailing variadic tuple (0 if the callable takes no tuple).
type Signature struct {
	Required   int
	Optional   int
	TupleWidth int
}

// Heap is the contiguous array of value slots every call reads its
// arguments from and writes its result into, per §4.7.
type Heap struct {
	slots []api.Value
}

// NewHeap creates a heap with cap pre-allocated slots.
func NewHeap(cap int) *Heap {
	return &Heap{slots: make([]api.Value, 0, cap)}
}

// Reserve appends n fresh nil slots and returns the base index of the
// new window.
func (h *Heap) Reserve(n int) (base uint32) {
	base = uint32(len(h.slots))
	for i := 0; i < n; i++ {
		h.slots = append(h.slots, api.Nil)
	}
	return base
}

// Get reads the slot at index i.
func (h *Heap) Get(i uint32) api.Value { return h.slots[i] }

// Set writes v into the slot at index i.
func (h *Heap) Set(i uint32, v api.Value) { h.slots[i] = v }

// Truncate drops every slot from base onward, returning the heap to the
// size it had before a call's argv/resv window was reserved.
func (h *Heap) Truncate(base uint32) { h.slots = h.slots[:base] }

// Frame is one call's argv/argc/resv window into a Heap, per §4.7: a
// host-callable function reads heap[argv:argv+argc] and writes
// heap[resv]. Ownership rule: any owning value read out of the argv
// window remains owned by the caller; any owning value written into resv
// must be own+1'd for the caller to take over.
type Frame struct {
	Heap *Heap
	Argv uint32
	Argc uint32
	Resv uint32
}

// Arg returns the i'th argument (0-indexed within the window).
func (f Frame) Arg(i uint32) api.Value {
	if i >= f.Argc {
		return api.Nil
	}
	return f.Heap.Get(f.Argv + i)
}

// SetResult writes the call's result value.
func (f Frame) SetResult(v api.Value) { f.Heap.Set(f.Resv, v) }

// HostFunc is a host-callable function registered against a class or
// module, matching api.GoFunction's (heap, argv, argc, resv) convention
// but operating on the typed Heap/Frame wrappers instead of raw indices.
type HostFunc func(ctx context.Context, f Frame) exceptionCode

// exceptionCode avoids importing internal/exception here (callbridge sits
// below exception in the dependency graph so both can be imported freely
// by internal/vm without a cycle); it is defined as a plain int alias
// callers convert to/from exception.Code at the boundary.
type exceptionCode = int

// Exports is a name-indexed table of callables, backing a module's
// ExportedFunction and the eel_call_by_name convenience entry.
type Exports struct {
	byName map[string]HostFunc
	sig    map[string]Signature
}

// NewExports creates an empty export table.
func NewExports() *Exports {
	return &Exports{byName: map[string]HostFunc{}, sig: map[string]Signature{}}
}

// Register adds fn under name with the given signature.
func (e *Exports) Register(name string, sig Signature, fn HostFunc) {
	e.byName[name] = fn
	e.sig[name] = sig
}

// Lookup returns the callable registered under name, or ok=false.
func (e *Exports) Lookup(name string) (HostFunc, Signature, bool) {
	fn, ok := e.byName[name]
	return fn, e.sig[name], ok
}

// CallByName is eel_call_by_name: it fetches name from exports, validates
// the supplied argument count against its signature (required <= len <=
// required+optional, or required+optional+k*tupleWidth when a tuple is
// supported), reserves a call window on heap, copies args in, invokes
// fn, and returns its result.
func CallByName(ctx context.Context, heap *Heap, exports *Exports, name string, args []api.Value) (api.Value, error) {
	fn, sig, ok := exports.Lookup(name)
	if !ok {
		return api.Nil, fmt.Errorf("eel: callbridge: no export named %q", name)
	}
	if err := validateArgCount(sig, len(args)); err != nil {
		return api.Nil, err
	}

	base := heap.Reserve(len(args) + 1)
	defer heap.Truncate(base)
	argv := base
	resv := base + uint32(len(args))
	for i, v := range args {
		heap.Set(argv+uint32(i), v)
	}

	frame := Frame{Heap: heap, Argv: argv, Argc: uint32(len(args)), Resv: resv}
	if code := fn(ctx, frame); code != 0 {
		return api.Nil, fmt.Errorf("eel: callbridge: %q failed with code %d", name, code)
	}
	return heap.Get(resv), nil
}

func validateArgCount(sig Signature, n int) error {
	fixedMax := sig.Required + sig.Optional
	if n < sig.Required {
		return fmt.Errorf("eel: callbridge: too few arguments: got %d, need at least %d", n, sig.Required)
	}
	if sig.TupleWidth <= 0 {
		if n > fixedMax {
			return fmt.Errorf("eel: callbridge: too many arguments: got %d, signature accepts at most %d", n, fixedMax)
		}
		return nil
	}
	if n < fixedMax {
		return nil // fewer than fixedMax optional args supplied, no tuple present
	}
	if (n-fixedMax)%sig.TupleWidth != 0 {
		return fmt.Errorf("eel: callbridge: trailing tuple has %d values, not a multiple of width %d", n-fixedMax, sig.TupleWidth)
	}
	return nil
}
