package exception

import (
	"fmt"
	"sync"
)

// ClientRange is the contiguous band of codes a binding receives after
// calling Register. translate(clientCode) = clientCode + Offset.
type ClientRange struct {
	Offset      int
	Names       []string
	Descriptions []string
}

// Registry tracks the client exception ranges registered against one
// engine. Its methods serialize on an internal mutex as a guard against
// accidental cross-goroutine misuse; the engine that owns it stays bound
// to the single-threaded-per-engine contract the runtime core makes
// everywhere else.
type Registry struct {
	mu     sync.Mutex // guards against accidental cross-goroutine misuse
	next   int
	ranges []*ClientRange
}

// NewRegistry creates an empty client-exception registry for one engine.
func NewRegistry() *Registry {
	return &Registry{next: clientRangeBase}
}

// Register reserves a contiguous band of len(names) codes for a
// third-party module, returning the offset such that translate(x) =
// x + offset. It fails with NoFreeBlocks if the reservation would
// exceed the space set aside for client codes (P5).
func (r *Registry) Register(names, descriptions []string) (offset int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) != len(descriptions) {
		return 0, fmt.Errorf("eel: exception: names and descriptions must have equal length")
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("eel: exception: cannot register an empty range")
	}
	if r.next+len(names) > clientRangeLimit {
		return 0, NoFreeBlocks.WithMessage("only %d of %d requested client codes remain", clientRangeLimit-r.next, len(names))
	}

	offset = r.next
	r.ranges = append(r.ranges, &ClientRange{Offset: offset, Names: names, Descriptions: descriptions})
	r.next += len(names)
	return offset, nil
}

// Translate maps a client-local code through the range it was registered
// in back to the engine-global Code space: translate(x) = x + offset.
func (r *Registry) Translate(offset int, clientCode int) Code {
	return Code(offset + clientCode)
}

func (r *Registry) lookup(code Code) (*ClientRange, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rng := range r.ranges {
		localIndex := int(code) - rng.Offset
		if localIndex >= 0 && localIndex < len(rng.Names) {
			return rng, localIndex, true
		}
	}
	return nil, 0, false
}

// active is consulted by the package-level Name/Description fallbacks so
// diagnostics can resolve client codes without every call site threading
// a *Registry through. Each engine installs its own registry here for the
// duration it is the active engine; see internal/vm.Open, which calls
// exception.SetActiveRegistry.
var activeMu sync.Mutex
var active *Registry

// SetActiveRegistry installs r (or clears it, if nil) as the registry
// consulted by the package-level Name/Description helpers below.
func SetActiveRegistry(r *Registry) {
	activeMu.Lock()
	active = r
	activeMu.Unlock()
}

func clientName(code Code) (string, bool) {
	activeMu.Lock()
	r := active
	activeMu.Unlock()
	if r == nil {
		return "", false
	}
	rng, i, ok := r.lookup(code)
	if !ok {
		return "", false
	}
	return rng.Names[i], true
}

func clientDescription(code Code) (string, bool) {
	activeMu.Lock()
	r := active
	activeMu.Unlock()
	if r == nil {
		return "", false
	}
	rng, i, ok := r.lookup(code)
	if !ok {
		return "", false
	}
	return rng.Descriptions[i], true
}

// NoFreeBlocks is returned by Register when the client-code space is
// exhausted.
const NoFreeBlocks Code = 9999
