package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassTable_RegisterAssignsSequentialIDsAndRejectsDuplicateNames(t *testing.T) {
	tbl := newClassTable()
	a, err := tbl.Register("a", -1)
	require.NoError(t, err)
	b, err := tbl.Register("b", -1)
	require.NoError(t, err)
	require.Equal(t, a.ID+1, b.ID)

	_, err = tbl.Register("a", -1)
	require.Error(t, err)
}

func TestClassTable_IsDescendantOfWalksAncestorChain(t *testing.T) {
	tbl := newClassTable()
	base, err := tbl.Register("base", -1)
	require.NoError(t, err)
	mid, err := tbl.Register("mid", base.ID)
	require.NoError(t, err)
	leaf, err := tbl.Register("leaf", mid.ID)
	require.NoError(t, err)

	require.True(t, tbl.IsDescendantOf(leaf.ID, base.ID))
	require.True(t, tbl.IsDescendantOf(leaf.ID, leaf.ID))
	require.False(t, tbl.IsDescendantOf(base.ID, leaf.ID))
}

func TestClassDescriptor_MetamethodSlotsAreIndependentByIndex(t *testing.T) {
	tbl := newClassTable()
	cd, err := tbl.Register("indexable", -1)
	require.NoError(t, err)

	require.Nil(t, cd.Metamethod(0))

	marker := func() {}
	cd.SetMetamethod(1, marker)
	require.NotNil(t, cd.Metamethod(1))
	require.Nil(t, cd.Metamethod(2))
}
