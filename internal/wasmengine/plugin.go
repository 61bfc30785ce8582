package wasmengine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// pluginInstance is the Plugin Instance (§3): one compiled module plus
// exactly one instantiated store, created at load and torn down at unload.
// Unlike the teacher's Plugin (which instantiates a fresh api.Module per
// call for thread safety), bud instantiates once and relies on the
// engine's coarse mutex to serialise calls into the single store (§5).
type pluginInstance struct {
	name     string
	compiled wazero.CompiledModule
	module   api.Module
}

// loadPlugin compiles the WASM bytes found at dir/MainFile and
// instantiates them for the plugin called name with the sandbox policy §4.3 mandates:
// stdio, command-line arguments, and environment variables inherited from
// the host process; no filesystem pre-open; no network sockets. If the
// guest exports "_initialize" it is invoked once, mirroring WASI reactor
// start-up convention used by the teacher's Plugin.createInstance.
func loadPlugin(ctx context.Context, rt wazero.Runtime, name string, wasmBytes []byte) (*pluginInstance, error) {
	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	// The wazero module is anonymous: wazero rejects a second module with
	// the same non-empty name, which would block re-loading a plugin while
	// its prior instance is still registered. The plugin name is kept on
	// pluginInstance instead.
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdin(os.Stdin).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithArgs(os.Args...)
	cfg = inheritEnviron(cfg)

	module, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if init := module.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = module.Close(ctx)
			_ = compiled.Close(ctx)
			return nil, fmt.Errorf("guest _initialize failed: %w", err)
		}
	}

	return &pluginInstance{name: name, compiled: compiled, module: module}, nil
}

// inheritEnviron copies every host environment variable into cfg one pair
// at a time, since wazero's ModuleConfig.WithEnv takes a single key/value
// rather than a full environ slice (§4.3: "environment variables
// inherited").
func inheritEnviron(cfg wazero.ModuleConfig) wazero.ModuleConfig {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		cfg = cfg.WithEnv(key, value)
	}
	return cfg
}

func (p *pluginInstance) close(ctx context.Context) error {
	if err := p.module.Close(ctx); err != nil {
		return fmt.Errorf("failed to close module instance: %w", err)
	}
	if err := p.compiled.Close(ctx); err != nil {
		return fmt.Errorf("failed to close compiled module: %w", err)
	}
	return nil
}
