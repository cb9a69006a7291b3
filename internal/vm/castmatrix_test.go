package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/exception"
)

func TestCastMatrix_UnregisteredCellFailsExceptSameClass(t *testing.T) {
	m := newCastMatrix()

	v := api.IntValue(7)
	_, err := m.Cast(v, 1, 2)
	require.Error(t, err)
	code, ok := exception.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, exception.CastFailed, code)

	same, err := m.Cast(v, 1, 1)
	require.NoError(t, err)
	require.Equal(t, v, same)
}

func TestCastMatrix_RegisteredCellIsUsed(t *testing.T) {
	m := newCastMatrix()
	m.SetCast(1, 2, func(src api.Value) (api.Value, error) {
		i, _ := src.AsInt()
		return api.RealValue(float64(i)), nil
	})

	got, err := m.Cast(api.IntValue(3), 1, 2)
	require.NoError(t, err)
	f, ok := got.AsReal()
	require.True(t, ok)
	require.Equal(t, 3.0, f)
}

func TestCastMatrix_SetCastOverwritesPriorEntry(t *testing.T) {
	m := newCastMatrix()
	m.SetCast(1, 2, func(src api.Value) (api.Value, error) { return api.IntValue(1), nil })
	m.SetCast(1, 2, func(src api.Value) (api.Value, error) { return api.IntValue(2), nil })

	got, err := m.Cast(api.Nil, 1, 2)
	require.NoError(t, err)
	i, _ := got.AsInt()
	require.Equal(t, int64(2), i)
}

func TestCastMatrix_CastFailedErrorUnwrapsCorrectly(t *testing.T) {
	m := newCastMatrix()
	_, err := m.Cast(api.Nil, 9, 10)
	var eerr *exception.Error
	require.True(t, errors.As(err, &eerr))
	require.Equal(t, exception.CastFailed, eerr.Code)
}

func TestEngineCast_IdentityPathOwnsThroughCopy(t *testing.T) {
	e := newTestEngine(t)
	classID := registerPlainClass(t, e, "widget")
	o, err := e.alloc(classID, nil)
	require.NoError(t, err)

	cast, castErr := e.Cast(api.NewObjRef(o), classID, classID)
	require.NoError(t, castErr)
	require.Equal(t, uint32(2), o.Refcount(), "identity cast must own+1 via Engine.Copy, not alias src")

	require.NoError(t, e.Disown(asObject(cast)))
	require.NoError(t, e.Disown(o))
}
