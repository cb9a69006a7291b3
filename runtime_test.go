package eel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chille/eel"
	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/callbridge"
)

func TestRuntime_OpenAndClose(t *testing.T) {
	ctx := context.Background()
	rt, err := eel.NewRuntime(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, rt.Close(ctx))
}

func TestRuntime_RegisterClassAndCallExportedFunction(t *testing.T) {
	ctx := context.Background()
	rt, err := eel.NewRuntime(ctx, eel.NewRuntimeConfig())
	require.NoError(t, err)
	defer rt.Close(ctx)

	mb := rt.NewModuleBuilder("mathlib")
	_, err = mb.NewClassBuilder("mathlib.point").
		WithConstructor(func(ctx context.Context, classID int, initv []api.Value) (api.Value, int) {
			return api.IntValue(0), 0
		}).
		Register()
	require.NoError(t, err)

	mb.ExportFunction("double", callbridge.Signature{Required: 1},
		func(ctx context.Context, f callbridge.Frame) int {
			n, _ := f.Arg(0).AsInt()
			f.SetResult(api.IntValue(n * 2))
			return 0
		})

	mod, err := mb.Instantiate(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, "mathlib", mod.Name())

	fn := mod.ExportedFunction("double")
	require.NotNil(t, fn)

	results, err := fn.Call(ctx, api.IntValue(21))
	require.NoError(t, err)
	require.Len(t, results, 1)
	n, _ := results[0].AsInt()
	require.Equal(t, int64(42), n)
}

func TestRuntime_ExportedFunctionMissingIsNil(t *testing.T) {
	ctx := context.Background()
	rt, err := eel.NewRuntime(ctx, nil)
	require.NoError(t, err)
	defer rt.Close(ctx)

	mod, err := rt.NewModuleBuilder("empty").Instantiate(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, mod.ExportedFunction("nope"))
}

func TestRuntime_LookupModuleAfterInstantiate(t *testing.T) {
	ctx := context.Background()
	rt, err := eel.NewRuntime(ctx, nil)
	require.NoError(t, err)
	defer rt.Close(ctx)

	_, err = rt.NewModuleBuilder("svc").Instantiate(ctx, nil)
	require.NoError(t, err)

	found, err := rt.LookupModule("svc", 0)
	require.NoError(t, err)
	require.Equal(t, "svc", found.Name())
}
