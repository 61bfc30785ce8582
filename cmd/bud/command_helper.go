package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/seho-dev/bud/internal/harness"
	"github.com/seho-dev/bud/internal/wasmengine"
)

// CommandContext provides common command dependencies, eliminating
// repetitive harness initialisation across CLI commands.
type CommandContext struct {
	Handle  *harness.Handle
	Logger  *slog.Logger
	Context context.Context
}

// CommandHandler executes with an initialised CommandContext.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withHandle wraps a command handler with harness construction: it loads
// bud.json from the current working directory, initialises the WASM
// provider, and builds the Plugin Manager before invoking the handler.
func withHandle(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}

		prov := wasmengine.NewWasmProviderWithMemoryLimit(settings.WasmMemoryLimitMB)

		builder := harness.NewBuilder(prov, cwd)
		builder.DataRootOverride = settings.DataRootOverride
		h, err := builder.Build(cmd.Context())
		// Build installs its own default handler on first use; restore the
		// one setupLogging configured so --log-level/--quiet keep applying.
		slog.SetDefault(logger)
		if err != nil {
			return fmt.Errorf("failed to initialise harness: %w", err)
		}

		ctx := &CommandContext{
			Handle:  h,
			Logger:  logger,
			Context: cmd.Context(),
		}

		return handler(ctx, cmd, args)
	}
}

// invocationLogger returns a logger carrying a fresh correlation id for a
// single plugin invocation, so every log line for that call can be
// grouped by "invocation_id" across the host process's output.
func invocationLogger(base *slog.Logger, plugin, function string) *slog.Logger {
	return base.With(
		"plugin", plugin,
		"function", function,
		"invocation_id", uuid.NewString(),
	)
}
