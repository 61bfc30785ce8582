package wasmengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/seho-dev/bud/internal/buderrors"
	"github.com/seho-dev/bud/internal/provider"
	"github.com/seho-dev/bud/internal/value"
)

// WasmProvider is the shipped Provider (C3) backing bud's Plugin Manager
// with wazero. A single WasmProvider is safe to share across goroutines:
// Init is idempotent, and every plugin operation is serialised through the
// underlying engine's mutex.
type WasmProvider struct {
	memoryLimitMB int

	initOnce sync.Once
	initErr  error

	mu  sync.RWMutex
	eng *engine
}

// NewWasmProvider constructs an uninitialised Provider using the default
// per-instance memory limit. Init must be called before
// Load/Invoke/Unload.
func NewWasmProvider() *WasmProvider {
	return &WasmProvider{}
}

// NewWasmProviderWithMemoryLimit is as NewWasmProvider but applies
// memoryLimitMB to every plugin instance's linear memory (0 = default,
// -1 = unlimited), sourced from the optional system configuration file.
func NewWasmProviderWithMemoryLimit(memoryLimitMB int) *WasmProvider {
	return &WasmProvider{memoryLimitMB: memoryLimitMB}
}

var _ provider.Provider = (*WasmProvider)(nil)

// MainFile implements provider.Provider.
func (w *WasmProvider) MainFile() string { return MainFile }

// Init implements provider.Provider. Safe to call more than once; only the
// first call constructs engine state, matching the teacher's
// double-checked-locking LoadPlugin pattern generalised to construction.
func (w *WasmProvider) Init(ctx context.Context) error {
	w.initOnce.Do(func() {
		e, err := newEngineWithMemoryLimit(ctx, w.memoryLimitMB)
		if err != nil {
			w.initErr = buderrors.NewProviderError(buderrors.InitFailed, "failed to initialise wazero runtime", err)
			return
		}
		w.mu.Lock()
		w.eng = e
		w.mu.Unlock()
	})
	return w.initErr
}

func (w *WasmProvider) engine() (*engine, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.eng == nil {
		return nil, buderrors.NewProviderError(buderrors.InitFailed, "provider not initialised", nil)
	}
	return w.eng, nil
}

// Load implements provider.Provider.
func (w *WasmProvider) Load(ctx context.Context, pluginDir string) error {
	e, err := w.engine()
	if err != nil {
		return err
	}

	mainPath := filepath.Join(pluginDir, MainFile)
	wasmBytes, err := os.ReadFile(mainPath)
	if err != nil {
		return buderrors.NewProviderError(buderrors.LoadFailed, fmt.Sprintf("missing %s in plugin directory", MainFile), err)
	}

	name := filepath.Base(filepath.Clean(pluginDir))

	p, err := loadPlugin(ctx, e.runtime, name, wasmBytes)
	if err != nil {
		return buderrors.NewProviderError(buderrors.LoadFailed, fmt.Sprintf("failed to load plugin %q", name), err)
	}

	e.register(ctx, name, p)
	return nil
}

// Inject implements provider.Provider. The shipped WASM adaptor reserves
// this entry point but does not support dynamically registered host
// functions after engine construction (§4.2): wazero's host module
// registration must happen before any guest module that imports from it is
// instantiated, and bud's current design never needs host imports for its
// numeric-only ABI.
func (w *WasmProvider) Inject(ctx context.Context, functions []provider.HostFunction) error {
	if len(functions) == 0 {
		return nil
	}
	return buderrors.NewProviderError(buderrors.InjectionFailed, "host function injection is reserved but not implemented", nil)
}

// WithPlugins implements provider.Provider.
func (w *WasmProvider) WithPlugins(f func(names []string)) {
	e, err := w.engine()
	if err != nil {
		f(nil)
		return
	}
	f(e.names())
}

// Invoke implements provider.Provider. A panicking guest call (the closest
// Go analogue to a poisoned mutex in the original design) is recovered and
// converted into an InvocationFailed ProviderError; the engine's mutex is
// always released via defer regardless of how the call inside terminates.
func (w *WasmProvider) Invoke(ctx context.Context, pluginName, function string, args []value.Value) (result value.Value, err error) {
	e, eerr := w.engine()
	if eerr != nil {
		return value.Null, eerr
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.plugins[pluginName]
	if !ok {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, fmt.Sprintf("plugin %q is not loaded", pluginName), nil)
	}

	defer func() {
		if r := recover(); r != nil {
			result = value.Null
			err = buderrors.NewProviderError(buderrors.InvocationFailed, fmt.Sprintf("guest function %q panicked", function), fmt.Errorf("%v", r))
		}
	}()

	fn := p.module.ExportedFunction(function)
	if fn == nil {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, fmt.Sprintf("plugin %q has no exported function %q", pluginName, function), nil)
	}

	def := fn.Definition()
	if err := checkResultTypes(def); err != nil {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, "unsupported result signature", err)
	}

	lanes, err := marshalArgs(def, args)
	if err != nil {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, "argument marshalling failed", err)
	}

	results, err := fn.Call(ctx, lanes...)
	if err != nil {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, fmt.Sprintf("guest function %q returned an error", function), err)
	}

	out, err := unmarshalResults(def, results)
	if err != nil {
		return value.Null, buderrors.NewProviderError(buderrors.InvocationFailed, "result marshalling failed", err)
	}
	return out, nil
}

// Unload implements provider.Provider.
func (w *WasmProvider) Unload(ctx context.Context, pluginName string) error {
	e, err := w.engine()
	if err != nil {
		return err
	}
	if err := e.unload(ctx, pluginName); err != nil {
		return buderrors.NewProviderError(buderrors.UnloadFailed, fmt.Sprintf("failed to unload plugin %q", pluginName), err)
	}
	return nil
}

// Close implements provider.Provider.
func (w *WasmProvider) Close(ctx context.Context) error {
	w.mu.RLock()
	e := w.eng
	w.mu.RUnlock()
	if e == nil {
		return nil
	}
	return e.close(ctx)
}
