package pluginmanager_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seho-dev/bud/internal/buderrors"
	"github.com/seho-dev/bud/internal/pluginmanager"
	"github.com/seho-dev/bud/internal/provider"
	"github.com/seho-dev/bud/internal/value"
)

// fakeProvider is a minimal in-memory provider.Provider for exercising
// the Manager without compiling real WASM modules.
type fakeProvider struct {
	mu      sync.Mutex
	loaded  map[string]bool
	invoker func(name, function string, args []value.Value) (value.Value, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{loaded: make(map[string]bool)}
}

func (f *fakeProvider) MainFile() string         { return "main.wasm" }
func (f *fakeProvider) Init(ctx context.Context) error { return nil }

func (f *fakeProvider) Load(ctx context.Context, pluginDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded[filepath.Base(pluginDir)] = true
	return nil
}

func (f *fakeProvider) Inject(ctx context.Context, functions []provider.HostFunction) error {
	return nil
}

func (f *fakeProvider) WithPlugins(fn func(names []string)) {
	f.mu.Lock()
	names := make([]string, 0, len(f.loaded))
	for n := range f.loaded {
		names = append(names, n)
	}
	f.mu.Unlock()
	fn(names)
}

func (f *fakeProvider) Invoke(ctx context.Context, pluginName, function string, args []value.Value) (value.Value, error) {
	if f.invoker != nil {
		return f.invoker(pluginName, function, args)
	}
	return value.I32(0), nil
}

func (f *fakeProvider) Unload(ctx context.Context, pluginName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.loaded, pluginName)
	return nil
}

func (f *fakeProvider) Close(ctx context.Context) error { return nil }

var _ provider.Provider = (*fakeProvider)(nil)

func writePluginSource(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifestJSON := `{"name":"` + name + `","version":"0.1.0","description":"d","author":"a"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifestJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("fake"), 0o644))
	return dir
}

func TestManager_InstallThenGet(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	src := writePluginSource(t, t.TempDir(), "demo")

	m := pluginmanager.New(dataRoot, newFakeProvider())
	require.NoError(t, m.Install(context.Background(), src))

	info, err := m.Get(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", info.Manifest.Name)
}

func TestManager_InstallTwiceFails(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	src := writePluginSource(t, t.TempDir(), "demo")

	m := pluginmanager.New(dataRoot, newFakeProvider())
	require.NoError(t, m.Install(context.Background(), src))

	err := m.Install(context.Background(), src)
	require.Error(t, err)

	var installErr *buderrors.InstallError
	require.ErrorAs(t, err, &installErr)
}

func TestManager_GetAll_LenientOnBadPlugins(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	writePluginSource(t, dataRoot, "good")

	// Malformed manifest.
	badDir := filepath.Join(dataRoot, "bad")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte(`{"name":"bad"}`), 0o644))

	// No manifest at all.
	require.NoError(t, os.MkdirAll(filepath.Join(dataRoot, "empty"), 0o755))

	m := pluginmanager.New(dataRoot, newFakeProvider())
	infos, err := m.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "good", infos[0].Manifest.Name)
}

func TestManager_GetAll_AllFailuresIsFatal(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	badDir := filepath.Join(dataRoot, "bad")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte(`not json`), 0o644))

	m := pluginmanager.New(dataRoot, newFakeProvider())
	_, err := m.GetAll(context.Background())
	assert.Error(t, err)
}

func TestManager_InvokeBeforeLoadFails(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	src := writePluginSource(t, t.TempDir(), "demo")

	m := pluginmanager.New(dataRoot, newFakeProvider())
	require.NoError(t, m.Install(context.Background(), src))

	_, err := m.Invoke(context.Background(), "demo", "Sum", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load the plugin first")
}

func TestManager_LoadThenInvokeSucceeds(t *testing.T) {
	t.Parallel()

	dataRoot := t.TempDir()
	src := writePluginSource(t, t.TempDir(), "demo")

	fp := newFakeProvider()
	fp.invoker = func(name, function string, args []value.Value) (value.Value, error) {
		a, _ := args[0].AsI32()
		b, _ := args[1].AsI32()
		return value.I32(a + b), nil
	}

	m := pluginmanager.New(dataRoot, fp)
	require.NoError(t, m.Install(context.Background(), src))
	require.NoError(t, m.Load(context.Background(), "demo"))

	result, err := m.Invoke(context.Background(), "demo", "Sum", []value.Value{value.I32(1), value.I32(2)})
	require.NoError(t, err)
	got, ok := result.AsI32()
	require.True(t, ok)
	assert.EqualValues(t, 3, got)
}
