package vm

import (
	"fmt"

	"github.com/chille/eel/api"
)

// ClassDescriptor is the engine's record for one registered class: its
// name, optional constructor/destructor, its metamethod table, opaque
// host-supplied class data, and an optional single-parent ancestor for
// inheritance-like hierarchies.
type ClassDescriptor struct {
	Name            string
	ID              int
	Constructor     api.ClassConstructor
	Destructor      api.ClassDestructor
	metamethods     [mmSlotCount]interface{}
	ClassData       interface{}
	AncestorClassID int // -1 when the class has no parent

	// instanceRefcount mirrors R3: the class itself is owned by each of
	// its instances, so its refcount is the number of live objects of
	// this class.
	instanceRefcount uint64
}

const mmSlotCount = 15 // keep in sync with api.MetamethodCount()

// InstanceRefcount returns the number of live instances of this class,
// which the spec requires equals the class's own refcount (P3).
func (cd *ClassDescriptor) InstanceRefcount() uint64 { return cd.instanceRefcount }

// SetMetamethod installs the callback for a given slot. The concrete
// function signature is metamethod-specific; metamethod.go type-asserts it
// back based on mm.
func (cd *ClassDescriptor) SetMetamethod(mm api.MetamethodIndex, cb interface{}) {
	cd.metamethods[mm] = cb
}

// Metamethod returns the callback installed for mm, or nil if unset.
func (cd *ClassDescriptor) Metamethod(mm api.MetamethodIndex) interface{} {
	return cd.metamethods[mm]
}

// ClassTable is the engine's grow-on-insert index of registered classes.
type ClassTable struct {
	classes []*ClassDescriptor
	byName  map[string]int
}

func newClassTable() *ClassTable {
	return &ClassTable{byName: map[string]int{}}
}

// Register adds a new class to the table and returns its assigned id.
// ancestorClassID may be -1 for "no parent".
func (t *ClassTable) Register(name string, ancestorClassID int) (*ClassDescriptor, error) {
	if _, exists := t.byName[name]; exists {
		return nil, fmt.Errorf("eel: class %q already registered", name)
	}
	id := len(t.classes)
	cd := &ClassDescriptor{Name: name, ID: id, AncestorClassID: ancestorClassID}
	t.classes = append(t.classes, cd)
	t.byName[name] = id
	return cd, nil
}

// Lookup returns the descriptor for classID, or false if out of range.
func (t *ClassTable) Lookup(classID int) (*ClassDescriptor, bool) {
	if classID < 0 || classID >= len(t.classes) {
		return nil, false
	}
	return t.classes[classID], true
}

// LookupByName returns the descriptor registered under name, or false.
func (t *ClassTable) LookupByName(name string) (*ClassDescriptor, bool) {
	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.classes[id], true
}

// Len returns the number of registered classes.
func (t *ClassTable) Len() int { return len(t.classes) }

// IsDescendantOf reports whether classID's ancestor chain includes
// ancestorID (inclusive of classID itself).
func (t *ClassTable) IsDescendantOf(classID, ancestorID int) bool {
	for classID >= 0 {
		if classID == ancestorID {
			return true
		}
		cd, ok := t.Lookup(classID)
		if !ok {
			return false
		}
		classID = cd.AncestorClassID
	}
	return false
}
