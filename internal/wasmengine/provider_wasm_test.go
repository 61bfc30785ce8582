package wasmengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seho-dev/bud/internal/provider"
	"github.com/seho-dev/bud/internal/value"
)

func writeTestPlugin(t *testing.T, dir, name string) string {
	t.Helper()
	pluginDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, MainFile), testWasmModule, 0o644))
	return pluginDir
}

func TestWasmProvider_InitIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)
}

func TestWasmProvider_InvokeBeforeInit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	_, err := p.Invoke(ctx, "x", "add", nil)
	assert.Error(t, err)
}

func TestWasmProvider_LoadAndInvoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	dir := writeTestPlugin(t, t.TempDir(), "demo")
	require.NoError(t, p.Load(ctx, dir))

	var names []string
	p.WithPlugins(func(n []string) { names = n })
	assert.ElementsMatch(t, []string{"demo"}, names)

	result, err := p.Invoke(ctx, "demo", "add", []value.Value{value.I32(2), value.I32(3)})
	require.NoError(t, err)
	got, ok := result.AsI32()
	require.True(t, ok)
	assert.EqualValues(t, 5, got)
}

func TestWasmProvider_InvokeUnknownPlugin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	_, err := p.Invoke(ctx, "nope", "add", nil)
	assert.Error(t, err)
}

func TestWasmProvider_InvokeTrapPropagatesAsError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	dir := writeTestPlugin(t, t.TempDir(), "demo")
	require.NoError(t, p.Load(ctx, dir))

	_, err := p.Invoke(ctx, "demo", "boom", nil)
	assert.Error(t, err)
}

func TestWasmProvider_InvokeRejectsArityMismatchBeforeCalling(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	dir := writeTestPlugin(t, t.TempDir(), "demo")
	require.NoError(t, p.Load(ctx, dir))

	_, err := p.Invoke(ctx, "demo", "add", []value.Value{value.I32(1)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "argument marshalling failed")
}

func TestWasmProvider_InvokeRejectsNonNumericArgs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	dir := writeTestPlugin(t, t.TempDir(), "demo")
	require.NoError(t, p.Load(ctx, dir))

	_, err := p.Invoke(ctx, "demo", "add", []value.Value{value.String("a"), value.I32(1)})
	assert.Error(t, err)
}

func TestWasmProvider_LoadMissingMainFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	emptyDir := t.TempDir()
	err := p.Load(ctx, emptyDir)
	assert.Error(t, err)
}

func TestWasmProvider_InjectUnimplemented(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	assert.NoError(t, p.Inject(ctx, nil))

	err := p.Inject(ctx, []provider.HostFunction{{Module: "env", Name: "log"}})
	assert.Error(t, err)
}

func TestWasmProvider_UnloadThenReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewWasmProvider()
	require.NoError(t, p.Init(ctx))
	defer p.Close(ctx)

	dir := writeTestPlugin(t, t.TempDir(), "demo")
	require.NoError(t, p.Load(ctx, dir))
	require.NoError(t, p.Unload(ctx, "demo"))

	_, err := p.Invoke(ctx, "demo", "add", []value.Value{value.I32(1), value.I32(2)})
	assert.Error(t, err)

	require.NoError(t, p.Load(ctx, dir))
	result, err := p.Invoke(ctx, "demo", "add", []value.Value{value.I32(4), value.I32(5)})
	require.NoError(t, err)
	got, _ := result.AsI32()
	assert.EqualValues(t, 9, got)
}
