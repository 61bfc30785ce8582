// Package provider declares the abstract Provider contract (C2): the
// lifecycle every concrete plugin engine must implement, decoupling the
// Plugin Manager from any one WASM runtime. internal/wasmengine is the
// shipped implementation.
package provider

import (
	"context"

	"github.com/seho-dev/bud/internal/value"
)

// HostFunction is a host callback a Provider can register via Inject,
// identified by (module, name) the way wazero's linker addresses imports.
type HostFunction struct {
	Module string
	Name   string
	Func   func(ctx context.Context, args []value.Value) (value.Value, error)
}

// Provider is the abstract façade over a concrete guest runtime. A second
// Init call is idempotent: it returns an equivalent instance and leaves any
// prior instance valid. The Provider is declared thread-safe — safe to
// share across goroutines without external locking.
type Provider interface {
	// MainFile names the entry file every plugin directory must contain
	// (e.g. "main.wasm" for the WASM adaptor).
	MainFile() string

	// Init constructs engine state. Idempotent.
	Init(ctx context.Context) error

	// Load validates plugin_dir/MainFile() exists, derives the plugin
	// name from the directory's final path component, compiles and
	// instantiates the module with a fresh per-plugin sandboxed context,
	// and registers the resulting Plugin Instance under that name. If the
	// name is already registered, the prior instance is dropped and
	// replaced.
	Load(ctx context.Context, pluginDir string) error

	// Inject registers host callbacks by (module, name) before
	// instantiation of any plugin that depends on them. The shipped WASM
	// adaptor reserves this capability but does not implement it (§4.2).
	Inject(ctx context.Context, functions []HostFunction) error

	// WithPlugins applies a read-only callback over the set of currently
	// loaded plugin names, without exposing the internal map.
	WithPlugins(f func(names []string))

	// Invoke resolves the plugin by name, resolves the exported function,
	// marshals args, executes it inside the plugin's isolated store, and
	// marshals the result back.
	Invoke(ctx context.Context, pluginName, function string, args []value.Value) (value.Value, error)

	// Unload tears down a Plugin Instance by name, releasing compiled
	// code and sandbox context. Idempotent on already-dropped instances.
	Unload(ctx context.Context, pluginName string) error

	// Close releases the Provider's shared engine state. Intended for
	// graceful shutdown of long-running hosts; not required for
	// short-lived CLI invocations.
	Close(ctx context.Context) error
}
