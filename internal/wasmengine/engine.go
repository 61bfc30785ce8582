// Package wasmengine is the concrete Provider (C3): it compiles WASM
// modules, builds a per-plugin isolated store with a sandboxed
// system-interface context, and invokes exported functions with
// type-checked marshalling against the Value ADT. Grounded in the
// teacher's internal/infrastructure/wasm (runtime.go, plugin.go) and the
// SDK's go/host package, rebuilt around the host-agnostic Provider
// contract and the closed Value ADT instead of a fixed describe/observe
// ABI.
package wasmengine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// MainFile is the entry filename every plugin directory must contain.
const MainFile = "main.wasm"

// defaultMemoryLimitMB is applied when no override is configured.
const defaultMemoryLimitMB = 256

// globalCache amortises compilation across every engine constructed within
// a single process (e.g. the many engines and providers the tests create).
var globalCache = wazero.NewCompilationCache()

// memoryLimitPages converts a configured MB limit into wazero's page count
// (1 page = 64KiB). A limit of 0 applies defaultMemoryLimitMB; -1 leaves
// wazero's unlimited default untouched.
func memoryLimitPages(memoryLimitMB int) (pages uint32, unlimited bool) {
	switch {
	case memoryLimitMB == 0:
		memoryLimitMB = defaultMemoryLimitMB
	case memoryLimitMB == -1:
		return 0, true
	case memoryLimitMB < 0:
		memoryLimitMB = defaultMemoryLimitMB
	}
	return uint32(memoryLimitMB) * 16, false
}

// engine holds the Provider Instance: the shared wazero runtime (acting as
// the "shared linker" pre-populated with system-interface stubs) and the
// map of loaded plugins. Both the runtime and the WASI/host-function
// registrations are immutable after construction; only the plugins map
// changes over the engine's lifetime.
type engine struct {
	runtime wazero.Runtime

	// mu guards the plugins map AND is held across the full duration of
	// Invoke (§5: "current design holds the map lock across the whole
	// invoke; this is a deliberate simplification"). This serialises
	// invocations for a single plugin and, with the current design,
	// across different plugins too — a coarser guarantee than strictly
	// required, traded for simplicity.
	mu      sync.Mutex
	plugins map[string]*pluginInstance
}

func newEngine(ctx context.Context) (*engine, error) {
	return newEngineWithMemoryLimit(ctx, 0)
}

// newEngineWithMemoryLimit mirrors the teacher's NewRuntimeWithCapabilities
// memory-limit contract: 0 selects defaultMemoryLimitMB, -1 disables the
// limit, and any positive value is applied verbatim (in MB).
func newEngineWithMemoryLimit(ctx context.Context, memoryLimitMB int) (*engine, error) {
	cfg := wazero.NewRuntimeConfig().WithCompilationCache(globalCache)

	pages, unlimited := memoryLimitPages(memoryLimitMB)
	if !unlimited {
		cfg = cfg.WithMemoryLimitPages(pages)
	} else {
		slog.Warn("WASM memory limit disabled (unlimited memory)")
	}

	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	return &engine{
		runtime: rt,
		plugins: make(map[string]*pluginInstance),
	}, nil
}

// register inserts or replaces the plugin under name. If a plugin was
// already registered under name, its prior instance is closed (releasing
// guest memory deterministically) and a warning is logged, per §4.3's
// "load" contract.
func (e *engine) register(ctx context.Context, name string, p *pluginInstance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prior, ok := e.plugins[name]; ok {
		slog.Warn("replacing already-loaded plugin", "plugin", name)
		if err := prior.close(ctx); err != nil {
			slog.Warn("failed to close replaced plugin instance", "plugin", name, "error", err)
		}
	}
	e.plugins[name] = p
}

func (e *engine) get(name string) (*pluginInstance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.plugins[name]
	return p, ok
}

func (e *engine) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.plugins))
	for n := range e.plugins {
		names = append(names, n)
	}
	return names
}

func (e *engine) unload(ctx context.Context, name string) error {
	e.mu.Lock()
	p, ok := e.plugins[name]
	if ok {
		delete(e.plugins, name)
	}
	e.mu.Unlock()

	if !ok {
		// Idempotent on already-dropped instances (§4.2).
		return nil
	}
	return p.close(ctx)
}

func (e *engine) close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, p := range e.plugins {
		if err := p.close(ctx); err != nil {
			slog.Warn("failed to close plugin during engine shutdown", "plugin", name, "error", err)
		}
	}
	e.plugins = make(map[string]*pluginInstance)
	return e.runtime.Close(ctx)
}
