// Package harness implements the Harness Façade (C6): a thin builder that
// wires a Plugin Manager to a Provider and exposes one typed entry point,
// mirroring the teacher's infrastructure/container.Container composition
// root but scoped to exactly the three collaborators SPEC_FULL.md names.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/seho-dev/bud/internal/buderrors"
	"github.com/seho-dev/bud/internal/datadir"
	"github.com/seho-dev/bud/internal/manifest"
	"github.com/seho-dev/bud/internal/pluginmanager"
	"github.com/seho-dev/bud/internal/provider"
	"github.com/seho-dev/bud/internal/rootconfig"
)

var loggingOnce sync.Once

// initLogging installs the default slog handler exactly once per process,
// regardless of how many Builders are constructed.
func initLogging(level slog.Level) {
	loggingOnce.Do(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	})
}

// Handle is the built harness: the loaded Root Config, the Provider it was
// wired to, and the Manager layered on top.
type Handle struct {
	Config   *manifest.RootConfig
	Provider provider.Provider
	Manager  *pluginmanager.Manager
}

// Builder constructs a Handle from a Provider and a project directory.
type Builder struct {
	Provider   provider.Provider
	ProjectDir string
	LogLevel   slog.Level

	// DataRootOverride, if non-empty, replaces the OS-resolved data root
	// datadir.Resolve would otherwise compute (sourced from
	// internal/sysconfig's optional system settings).
	DataRootOverride string
}

// NewBuilder constructs a Builder for prov rooted at projectDir (normally
// the process's current working directory).
func NewBuilder(prov provider.Provider, projectDir string) *Builder {
	return &Builder{Provider: prov, ProjectDir: projectDir, LogLevel: slog.LevelInfo}
}

// Build implements §4.6: load the Root Config, initialise the Provider,
// resolve the data root, and construct the Plugin Manager. Every failure
// is wrapped in a single FacadeError naming the stage it occurred at.
func (b *Builder) Build(ctx context.Context) (*Handle, error) {
	initLogging(b.LogLevel)

	cfg, err := rootconfig.Load(b.ProjectDir)
	if err != nil {
		return nil, buderrors.NewFacadeError("config", err)
	}

	if err := b.Provider.Init(ctx); err != nil {
		return nil, buderrors.NewFacadeError("provider_init", err)
	}

	dataRoot := b.DataRootOverride
	if dataRoot == "" {
		resolved, err := datadir.Resolve(cfg.Name)
		if err != nil {
			return nil, buderrors.NewFacadeError("plugin", err)
		}
		dataRoot = resolved
	} else if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, buderrors.NewFacadeError("plugin", fmt.Errorf("failed to create overridden data root %q: %w", dataRoot, err))
	}

	mgr := pluginmanager.New(dataRoot, b.Provider)

	return &Handle{Config: cfg, Provider: b.Provider, Manager: mgr}, nil
}
