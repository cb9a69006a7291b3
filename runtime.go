// Package eel is the embedding API for the runtime core: open an engine,
// register classes and modules, call into them, and close it down. It
// wraps internal/vm the same way the teacher's root package wraps
// internal/wasm, keeping api as the sole decoupling surface shared with
// the internal implementation.
package eel

import (
	"context"
	"fmt"

	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/callbridge"
	"github.com/chille/eel/internal/modreg"
	"github.com/chille/eel/internal/vm"
)

// Runtime is one embedding's engine plus its module registry and the
// shared call-bridge heap every invocation flows through.
type Runtime struct {
	engine *vm.Engine
	mods   *modreg.Registry
	heap   *callbridge.Heap

	nextModuleID uint64
}

// NewRuntime opens a new Runtime. ctx is accepted for symmetry with the
// teacher's NewRuntime(ctx) and to let future blocking setup (e.g.
// loading an environment document from a remote source) honor
// cancellation; today nothing under Open blocks.
func NewRuntime(ctx context.Context, cfg *RuntimeConfig) (*Runtime, error) {
	if cfg == nil {
		cfg = NewRuntimeConfig()
	}
	env, err := cfg.resolveEnvironment()
	if err != nil {
		return nil, fmt.Errorf("eel: NewRuntime: %w", err)
	}
	engine := vm.Open(vm.Config{Log: cfg.log, Environment: env})
	return &Runtime{
		engine: engine,
		mods:   modreg.New(),
		heap:   callbridge.NewHeap(256),
	}, nil
}

// Close tears down every module still registered (honoring the engine
// teardown contract: unload refusal is not honored here, per §4.6) and
// detaches the engine.
func (r *Runtime) Close(ctx context.Context) error {
	r.mods.Close()
	r.engine.Close()
	return nil
}

// Engine exposes the underlying engine for callers in this module's own
// packages (ModuleBuilder, ClassBuilder); not part of the public surface
// an embedder is expected to reach for directly.
func (r *Runtime) Engine() *vm.Engine { return r.engine }

// LookupModule implements get_loaded_module(name, flags) against this
// runtime's registry.
func (r *Runtime) LookupModule(name string, flag modreg.LookupFlag) (api.Module, error) {
	m, code := r.mods.Lookup(name, flag)
	if code != 0 {
		return nil, fmt.Errorf("eel: LookupModule(%q): %s", name, "not found")
	}
	mod, _ := m.(api.Module)
	return mod, nil
}

// Sweep runs one incremental module-unload pass (§4.6): modules whose
// unload callback refuses move into the dead-modules holder instead of
// being dropped.
func (r *Runtime) Sweep() { r.mods.Sweep() }
