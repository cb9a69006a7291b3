package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chille/eel/api"
)

func TestWeakRef_DerefBeforeDestroyReturnsOwningRef(t *testing.T) {
	e := newTestEngine(t)
	classID := registerPlainClass(t, e, "widget")
	o, err := e.alloc(classID, nil)
	require.NoError(t, err)

	w := e.MakeWeakRef(o)
	require.Equal(t, api.TagWeakRef, w.Tag())

	got := e.DerefWeakRef(w)
	require.Equal(t, api.TagObjRef, got.Tag())
	require.Equal(t, uint32(2), o.Refcount()) // alloc's own + Deref's own

	require.NoError(t, e.Disown(asObject(got)))
	require.NoError(t, e.Disown(o))
}

func TestWeakRef_DerefAfterDestroyYieldsNil(t *testing.T) {
	e := newTestEngine(t)
	classID := registerPlainClass(t, e, "widget")
	o, err := e.alloc(classID, nil)
	require.NoError(t, err)

	w := e.MakeWeakRef(o)
	require.NoError(t, e.Disown(o))

	require.True(t, e.DerefWeakRef(w).IsNil())
}

func TestWeakRef_DetachIsExactlyOnce(t *testing.T) {
	e := newTestEngine(t)
	classID := registerPlainClass(t, e, "widget")
	o, err := e.alloc(classID, nil)
	require.NoError(t, err)

	w := e.MakeWeakRef(o)
	require.True(t, e.DetachWeakRef(w))
	require.False(t, e.DetachWeakRef(w), "a second detach must report false, not panic")

	require.NoError(t, e.Disown(o))
}

func TestWeakRef_MultipleNodesAllZeroedOnDestroy(t *testing.T) {
	e := newTestEngine(t)
	classID := registerPlainClass(t, e, "widget")
	o, err := e.alloc(classID, nil)
	require.NoError(t, err)

	w1 := e.MakeWeakRef(o)
	w2 := e.MakeWeakRef(o)
	w3 := e.MakeWeakRef(o)

	require.NoError(t, e.Disown(o))

	require.True(t, e.DerefWeakRef(w1).IsNil())
	require.True(t, e.DerefWeakRef(w2).IsNil())
	require.True(t, e.DerefWeakRef(w3).IsNil())
}
