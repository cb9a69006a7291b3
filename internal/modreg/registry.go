// Package modreg implements the runtime core's module registry: a
// weak-referenced name table, a "dead modules" holder for destructors
// that refused to unload, a module lock counter, and circular-import
// detection. It mirrors how the teacher's internal/wasm keeps
// Store.moduleList/nameToModule, generalized from strong references to
// weak ones since a registry entry must never extend a module's
// lifetime.
package modreg

import (
	"fmt"

	"github.com/chille/eel/internal/exception"
)

// LookupFlag controls get_loaded_module's sharing contract.
type LookupFlag int

const (
	// AllowShared returns an existing registry entry if present.
	AllowShared LookupFlag = iota
	// NoShared always produces (or requires) a private instance, never
	// inserted into the registry under a shared name.
	NoShared
)

// UnloadFunc is a module's unload callback. closing is false during an
// incremental registry sweep (the module may refuse by returning false,
// moving itself into the dead-modules holder) and true at engine
// teardown, when refusal is not honored.
type UnloadFunc func(closing bool) (unloaded bool)

// entry is one weakly-held registration.
type entry struct {
	name   string
	module interface{}
	unload UnloadFunc
	alive  func() bool // reports whether the weak target is still live
}

// Registry is one engine's module table plus its supporting bookkeeping.
// Not safe for concurrent use, matching the engine's single-threaded
// contract.
type Registry struct {
	byName  map[string]*entry
	loading map[string]bool
	dead    []*entry
	lock    int
}

// New creates an empty module registry.
func New() *Registry {
	return &Registry{byName: map[string]*entry{}, loading: map[string]bool{}}
}

// Lock increments the module lock counter, suppressing unload sweeps
// while compilation or host code holds unbalanced references.
func (r *Registry) Lock() { r.lock++ }

// Unlock decrements the module lock counter. Unlocking past zero is a
// caller bug and panics rather than going negative silently.
func (r *Registry) Unlock() {
	if r.lock == 0 {
		panic("eel: modreg: Unlock without matching Lock")
	}
	r.lock--
}

// Locked reports whether the registry currently suppresses unloading.
func (r *Registry) Locked() bool { return r.lock > 0 }

// BeginLoad marks name as currently loading, returning exception.Code
// ModuleLoad if it is already in progress (a circular import).
func (r *Registry) BeginLoad(name string) exception.Code {
	if r.loading[name] {
		return exception.ModuleLoad
	}
	r.loading[name] = true
	return exception.OK
}

// EndLoad clears name's in-progress marker, whether the load succeeded
// or failed.
func (r *Registry) EndLoad(name string) { delete(r.loading, name) }

// Register inserts module under name with weak semantics: alive reports
// whether the module is still live (the registry never itself keeps it
// alive), and is consulted lazily by Lookup and Sweep. Registering a
// second module under an in-use name replaces the prior weak entry
// without touching the module itself.
func (r *Registry) Register(name string, module interface{}, alive func() bool, unload UnloadFunc) {
	r.byName[name] = &entry{name: name, module: module, alive: alive, unload: unload}
}

// Lookup implements get_loaded_module's sharing contract. With
// AllowShared it returns the existing registration (pruning it first if
// its weak target has died); with NoShared it always reports "not
// found" regardless of the registry's contents, since a NoShared load
// always produces a private, unregistered instance.
func (r *Registry) Lookup(name string, flag LookupFlag) (module interface{}, code exception.Code) {
	if flag == NoShared {
		return nil, exception.WrongIndex
	}
	e, ok := r.byName[name]
	if !ok {
		return nil, exception.WrongIndex
	}
	if e.alive != nil && !e.alive() {
		delete(r.byName, name)
		return nil, exception.WrongIndex
	}
	return e.module, exception.OK
}

// Sweep runs an incremental unload pass: every live, weakly-registered
// module whose alive() now reports false is dropped outright (its
// object lifetime already ended); every module whose unload callback
// refuses (closing=false) is moved into the dead-modules holder, which
// Close later force-unloads. Sweep is a no-op while the registry is
// locked.
func (r *Registry) Sweep() {
	if r.Locked() {
		return
	}
	for name, e := range r.byName {
		if e.alive != nil && !e.alive() {
			delete(r.byName, name)
			continue
		}
		if e.unload == nil {
			continue
		}
		if !e.unload(false) {
			r.dead = append(r.dead, e)
			delete(r.byName, name)
		}
	}
}

// Close force-unloads every remaining registered and dead module,
// honoring neither refusal from here on (the closing=true contract from
// §4.6's unload callback semantics).
func (r *Registry) Close() {
	for _, e := range r.byName {
		if e.unload != nil {
			e.unload(true)
		}
	}
	for _, e := range r.dead {
		if e.unload != nil {
			e.unload(true)
		}
	}
	r.byName = map[string]*entry{}
	r.dead = nil
}

// Names returns every currently registered module name, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}

// String implements fmt.Stringer for diagnostics.
func (r *Registry) String() string {
	return fmt.Sprintf("<modreg: %d live, %d dead, lock=%d>", len(r.byName), len(r.dead), r.lock)
}
