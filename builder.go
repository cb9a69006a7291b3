package eel

import (
	"context"
	"fmt"

	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/callbridge"
	"github.com/chille/eel/internal/modreg"
)

// ClassBuilder defines a class (in Go), so scripts or host code can
// construct instances, index them, and invoke operators against them. It
// mirrors the teacher's HostFunctionBuilder, generalized from "one Go
// func becomes one WebAssembly import" to "one class descriptor's worth
// of constructor/destructor/metamethod table becomes available to every
// module that imports this class's owning module".
//
// Notes:
//   - ClassBuilder is mutable: each method returns the same instance for
//     chaining.
//   - Methods do not return errors, to allow chaining. Validation errors
//     are deferred until Register.
type ClassBuilder struct {
	m               *ModuleBuilder
	name            string
	ancestorClassID int
	constructor     api.ClassConstructor
	destructor      api.ClassDestructor
	metamethods     map[api.MetamethodIndex]interface{}
}

// WithConstructor sets the class's constructor.
func (b *ClassBuilder) WithConstructor(fn api.ClassConstructor) *ClassBuilder {
	b.constructor = fn
	return b
}

// WithDestructor sets the class's destructor.
func (b *ClassBuilder) WithDestructor(fn api.ClassDestructor) *ClassBuilder {
	b.destructor = fn
	return b
}

// WithMetamethod installs cb in slot mm. cb's concrete type must match
// what internal/vm's dispatch expects for mm (vm.OperatorFunc,
// vm.LengthFunc, or vm.CompareFunc) — a mismatch surfaces as
// exception.Internal at dispatch time, not here, matching the teacher's
// "validation deferred until Compile" builder contract.
func (b *ClassBuilder) WithMetamethod(mm api.MetamethodIndex, cb interface{}) *ClassBuilder {
	if b.metamethods == nil {
		b.metamethods = map[api.MetamethodIndex]interface{}{}
	}
	b.metamethods[mm] = cb
	return b
}

// WithAncestor sets the single-parent ancestor class id for inheritance-
// style dispatch (IsDescendantOf). Defaults to -1 (no parent).
func (b *ClassBuilder) WithAncestor(ancestorClassID int) *ClassBuilder {
	b.ancestorClassID = ancestorClassID
	return b
}

// Register installs the class into the owning Runtime's class table and
// returns to the ModuleBuilder for further chaining.
func (b *ClassBuilder) Register() (*ModuleBuilder, error) {
	cd, err := b.m.r.engine.Classes().Register(b.name, b.ancestorClassID)
	if err != nil {
		return nil, err
	}
	cd.Constructor = b.constructor
	cd.Destructor = b.destructor
	for mm, cb := range b.metamethods {
		cd.SetMetamethod(mm, cb)
	}
	b.m.classIDs[b.name] = cd.ID
	return b.m, nil
}

// ModuleBuilder assembles a set of classes and exported functions under
// one module name, mirroring the teacher's HostModuleBuilder: functions
// are indexed by name, nothing is visible to the registry until
// Instantiate.
type ModuleBuilder struct {
	r          *Runtime
	name       string
	classIDs   map[string]int
	exports    *callbridge.Exports
	exportSigs map[string]callbridge.Signature
}

// NewModuleBuilder begins the definition of a module named moduleName.
func (r *Runtime) NewModuleBuilder(moduleName string) *ModuleBuilder {
	return &ModuleBuilder{
		r:        r,
		name:     moduleName,
		classIDs: map[string]int{},
		exports:  callbridge.NewExports(),
	}
}

// NewClassBuilder begins the definition of a class named className,
// scoped to this module.
func (b *ModuleBuilder) NewClassBuilder(className string) *ClassBuilder {
	return &ClassBuilder{m: b, name: className, ancestorClassID: -1}
}

// ExportFunction registers fn under name with the given call signature
// (required, optional, tuple width), callable via the module's
// ExportedFunction or eel_call_by_name.
func (b *ModuleBuilder) ExportFunction(name string, sig callbridge.Signature, fn callbridge.HostFunc) *ModuleBuilder {
	b.exports.Register(name, sig, fn)
	return b
}

// ClassID returns the id assigned to a class registered on this builder,
// for wiring cast-matrix entries or ancestor relationships between
// classes defined in the same module.
func (b *ModuleBuilder) ClassID(className string) (int, bool) {
	id, ok := b.classIDs[className]
	return id, ok
}

// Instantiate registers the built module under its name in the owning
// Runtime's registry and returns the resulting api.Module. Registering
// under a name already in use replaces the prior (dead or alive) weak
// entry, matching the registry's weak-reference semantics (§4.6).
func (b *ModuleBuilder) Instantiate(ctx context.Context, unload modreg.UnloadFunc) (api.Module, error) {
	if code := b.r.mods.BeginLoad(b.name); code != 0 {
		return nil, fmt.Errorf("eel: Instantiate(%q): circular or duplicate load in progress", b.name)
	}
	defer b.r.mods.EndLoad(b.name)

	b.r.nextModuleID++
	mod := &module{
		name:    b.name,
		id:      b.r.nextModuleID,
		exports: b.exports,
		heap:    b.r.heap,
		closed:  false,
	}
	b.r.mods.Register(b.name, mod, func() bool { return !mod.closed }, unload)
	return mod, nil
}

// module implements api.Module backed by a callbridge export table.
type module struct {
	name    string
	id      uint64
	exports *callbridge.Exports
	heap    *callbridge.Heap
	closed  bool
}

func (m *module) Name() string { return m.name }
func (m *module) ID() uint64   { return m.id }

func (m *module) ExportedFunction(name string) api.Function {
	fn, sig, ok := m.exports.Lookup(name)
	if !ok {
		return nil
	}
	return &exportedFunction{heap: m.heap, exports: m.exports, sig: sig, name: name, fn: fn}
}

func (m *module) Close(ctx context.Context) error {
	m.closed = true
	return nil
}

var _ api.Module = (*module)(nil)

// exportedFunction adapts a callbridge.HostFunc to api.Function.
type exportedFunction struct {
	heap    *callbridge.Heap
	exports *callbridge.Exports
	sig     callbridge.Signature
	name    string
	fn      callbridge.HostFunc
}

func (f *exportedFunction) Call(ctx context.Context, args ...api.Value) ([]api.Value, error) {
	v, err := callbridge.CallByName(ctx, f.heap, f.exports, f.name, args)
	if err != nil {
		return nil, err
	}
	return []api.Value{v}, nil
}

var _ api.Function = (*exportedFunction)(nil)
