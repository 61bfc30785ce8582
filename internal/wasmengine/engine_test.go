package wasmengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e, err := newEngine(ctx)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Empty(t, e.names())
	assert.NoError(t, e.close(ctx))
}

func TestEngine_RegisterReplacesPriorInstance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e, err := newEngine(ctx)
	require.NoError(t, err)
	defer e.close(ctx)

	p1, err := loadPlugin(ctx, e.runtime, "demo", testWasmModule)
	require.NoError(t, err)
	e.register(ctx, "demo", p1)

	p2, err := loadPlugin(ctx, e.runtime, "demo", testWasmModule)
	require.NoError(t, err)
	e.register(ctx, "demo", p2)

	got, ok := e.get("demo")
	require.True(t, ok)
	assert.Same(t, p2, got)
	assert.ElementsMatch(t, []string{"demo"}, e.names())
}

func TestEngine_UnloadIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e, err := newEngine(ctx)
	require.NoError(t, err)
	defer e.close(ctx)

	assert.NoError(t, e.unload(ctx, "never-loaded"))

	p, err := loadPlugin(ctx, e.runtime, "demo", testWasmModule)
	require.NoError(t, err)
	e.register(ctx, "demo", p)

	require.NoError(t, e.unload(ctx, "demo"))
	assert.NoError(t, e.unload(ctx, "demo"))

	_, ok := e.get("demo")
	assert.False(t, ok)
}
