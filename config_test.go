package eel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chille/eel"
)

func TestRuntimeConfig_EnvironmentYAMLIsVisibleOnTheEngine(t *testing.T) {
	ctx := context.Background()
	cfg := eel.NewRuntimeConfig().WithEnvironmentYAML([]byte("GREETING: hello\n"))
	rt, err := eel.NewRuntime(ctx, cfg)
	require.NoError(t, err)
	defer rt.Close(ctx)

	v, ok := rt.Engine().Env("GREETING")
	require.True(t, ok)
	require.Equal(t, "hello", v)
}

func TestRuntimeConfig_DirectOverlayWinsOverYAML(t *testing.T) {
	ctx := context.Background()
	cfg := eel.NewRuntimeConfig().
		WithEnvironmentYAML([]byte("GREETING: hello\n")).
		WithEnvironment("GREETING", "overridden")
	rt, err := eel.NewRuntime(ctx, cfg)
	require.NoError(t, err)
	defer rt.Close(ctx)

	v, _ := rt.Engine().Env("GREETING")
	require.Equal(t, "overridden", v)
}

func TestRuntimeConfig_CloneDoesNotAliasOverlay(t *testing.T) {
	base := eel.NewRuntimeConfig().WithEnvironment("A", "1")
	derived := base.WithEnvironment("B", "2")

	ctx := context.Background()
	rt, err := eel.NewRuntime(ctx, base)
	require.NoError(t, err)
	defer rt.Close(ctx)

	_, ok := rt.Engine().Env("B")
	require.False(t, ok, "mutating derived must not affect base")
	_ = derived
}
