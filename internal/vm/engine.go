package vm

import (
	"github.com/sirupsen/logrus"

	"github.com/chille/eel/internal/exception"
	"github.com/chille/eel/internal/vm/tracelog"
)

// Config carries the pieces of RuntimeConfig the engine needs at Open
// time. It is deliberately small and duplicated here rather than
// importing package eel, which would create an import cycle (eel already
// imports internal/vm).
type Config struct {
	Log         logrus.FieldLogger
	Environment map[string]string
}

// Engine is the runtime core's "Store" equivalent: the single piece of
// state every object, class, weakref, and exception in one embedding
// belongs to. Nothing here is safe for concurrent use, matching the
// single-threaded-per-engine contract described throughout the spec.
type Engine struct {
	classes *ClassTable
	cast    *CastMatrix
	strings *StringPool
	sbufs   *SBufferPool

	stringClassID int

	registry *exception.Registry
	unwind   *exception.Unwinder

	env map[string]string

	limboHead *Object

	log   logrus.FieldLogger
	Trace *tracelog.Logger
}

// Open constructs and wires a fresh Engine: class table, cast matrix,
// interned string pool, sbuffer pool, exception registry, and unwinder.
// It installs the engine's exception registry as the package-level active
// one so exception.Name/Description resolve client codes registered
// against this engine (mirrors wazero's per-Runtime engine construction in
// NewRuntimeConfig's newEngine hook).
func Open(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &Engine{
		classes:  newClassTable(),
		cast:     newCastMatrix(),
		sbufs:    newSBufferPool(),
		registry: exception.NewRegistry(),
		unwind:   exception.NewUnwinder(),
		env:      map[string]string{},
		log:      log,
		Trace:    tracelog.New(log),
	}
	for k, v := range cfg.Environment {
		e.env[k] = v
	}

	classID, err := registerShortStringClass(e.classes, &e.strings)
	if err != nil {
		panic(err) // only fails if Open is somehow called twice on the same table
	}
	e.stringClassID = classID
	e.strings = newStringPool(classID)

	exception.SetActiveRegistry(e.registry)
	return e
}

// Close tears the engine down. Any objects still alive at this point
// belong to the embedder's leaked-reference bug, not the engine's: Close
// does not force-destroy them, it only detaches the engine from the
// package-level active exception registry.
func (e *Engine) Close() {
	exception.SetActiveRegistry(nil)
}

// Classes returns the engine's class table, for ClassBuilder/ModuleBuilder
// in the root package to register against.
func (e *Engine) Classes() *ClassTable { return e.classes }

// Casts returns the engine's cast matrix.
func (e *Engine) Casts() *CastMatrix { return e.cast }

// Registry returns the engine's client exception-code registry.
func (e *Engine) Registry() *exception.Registry { return e.registry }

// Unwinder returns the engine's non-local unwind jump-buffer stack, used
// only by the compiler collaborator's catastrophic-error path.
func (e *Engine) Unwinder() *exception.Unwinder { return e.unwind }

// Env looks up a key in the engine's environment table.
func (e *Engine) Env(key string) (string, bool) {
	v, ok := e.env[key]
	return v, ok
}

// SetEnv sets a key in the engine's environment table, overriding
// whatever Config.Environment supplied at Open time.
func (e *Engine) SetEnv(key, value string) { e.env[key] = value }

// Logger returns the engine's call/dispatch tracing logger.
func (e *Engine) Logger() logrus.FieldLogger { return e.log }

// LimboHead returns the head of the engine's intrusive limbo list, for
// diagnostics (e.g. detecting objects stuck mid-destruction at Close).
func (e *Engine) LimboHead() *Object { return e.limboHead }
