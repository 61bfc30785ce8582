// Package pluginmanager owns the on-disk plugin layout, validates
// manifests via internal/manifest, and arbitrates install/load/invoke
// across concurrent callers (C5). Grounded in the teacher's
// application/services/plugin_service.go for the orchestration shape
// (resolver+repository+registry composed into one service). Manifests are
// read from <data root>/<name>/plugin.json.
package pluginmanager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/seho-dev/bud/internal/buderrors"
	"github.com/seho-dev/bud/internal/fsutil"
	"github.com/seho-dev/bud/internal/manifest"
	"github.com/seho-dev/bud/internal/provider"
	"github.com/seho-dev/bud/internal/value"
)

// PluginInfo is a cache entry: a validated manifest plus the absolute
// on-disk path of the plugin directory it came from.
type PluginInfo struct {
	Manifest *manifest.Manifest
	Path     string
}

// Manager is the Plugin Manager (C5). Safe for concurrent use: the cache
// is guarded by a mutex and concurrent Get/Load calls for the same plugin
// name are collapsed via singleflight so a burst of callers triggers at
// most one disk read / one Provider.Load per name.
type Manager struct {
	dataRoot string
	prov     provider.Provider

	mu    sync.Mutex
	cache map[string]PluginInfo

	group singleflight.Group
}

// New constructs a Manager anchored at dataRoot, delegating plugin
// lifecycle operations to prov.
func New(dataRoot string, prov provider.Provider) *Manager {
	return &Manager{
		dataRoot: dataRoot,
		prov:     prov,
		cache:    make(map[string]PluginInfo),
	}
}

// Install implements §4.5's install operation.
func (m *Manager) Install(ctx context.Context, sourceDir string) error {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return buderrors.NewInstallError(filepath.Base(sourceDir), "source is not a directory", err)
	}

	raw, err := os.ReadFile(filepath.Join(sourceDir, "plugin.json"))
	if err != nil {
		return buderrors.NewInstallError(filepath.Base(sourceDir), "failed to read plugin.json", err)
	}

	mf, err := manifest.Validate(raw)
	if err != nil {
		return buderrors.NewInstallError(filepath.Base(sourceDir), "manifest validation failed", err)
	}

	dest := filepath.Join(m.dataRoot, mf.Name)
	if destInfo, err := os.Stat(dest); err == nil && destInfo.IsDir() {
		return buderrors.NewInstallError(mf.Name, "plugin is already installed", nil)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return buderrors.NewInstallError(mf.Name, "failed to create destination directory", err)
	}
	if err := fsutil.CopyDir(sourceDir, dest); err != nil {
		return buderrors.NewInstallError(mf.Name, "failed to copy plugin contents", err)
	}

	m.mu.Lock()
	m.cache[mf.Name] = PluginInfo{Manifest: mf, Path: dest}
	m.mu.Unlock()

	return nil
}

// GetAll implements §4.5's lenient get_all discovery. Failures loading an
// individual subdirectory are logged and skipped; the call only fails
// when every candidate fails.
func (m *Manager) GetAll(ctx context.Context) ([]PluginInfo, error) {
	entries, err := os.ReadDir(m.dataRoot)
	if err != nil {
		return nil, buderrors.NewLoadError("", "failed to scan data root", err)
	}

	fresh := make(map[string]PluginInfo)
	var failures []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.dataRoot, entry.Name())
		info, err := loadManifestFromDir(dir, entry.Name())
		if err != nil {
			slog.Error("skipping plugin that failed to load", "plugin", entry.Name(), "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		if prior, ok := fresh[info.Manifest.Name]; ok {
			slog.Error("duplicate manifest name across plugin directories", "name", info.Manifest.Name, "first_path", prior.Path, "second_path", info.Path)
		}
		fresh[info.Manifest.Name] = info
	}

	if len(fresh) == 0 && len(failures) > 0 {
		return nil, buderrors.NewLoadError("", "no valid plugins found", fmt.Errorf("%d failure(s): %v", len(failures), failures))
	}

	m.mu.Lock()
	m.cache = fresh
	m.mu.Unlock()

	out := make([]PluginInfo, 0, len(fresh))
	for _, info := range fresh {
		out = append(out, info)
	}
	return out, nil
}

// Get implements §4.5's cache-then-load-through get operation.
func (m *Manager) Get(ctx context.Context, name string) (PluginInfo, error) {
	m.mu.Lock()
	if info, ok := m.cache[name]; ok {
		m.mu.Unlock()
		return info, nil
	}
	m.mu.Unlock()

	result, err, _ := m.group.Do(name, func() (any, error) {
		dir := filepath.Join(m.dataRoot, name)
		info, err := loadManifestFromDir(dir, name)
		if err != nil {
			return PluginInfo{}, buderrors.NewLoadError(name, "failed to load manifest", err)
		}

		m.mu.Lock()
		m.cache[name] = info
		m.mu.Unlock()
		return info, nil
	})
	if err != nil {
		return PluginInfo{}, err
	}
	return result.(PluginInfo), nil
}

// Load implements §4.5's load operation: ensure installed, then delegate
// to the Provider.
func (m *Manager) Load(ctx context.Context, name string) error {
	info, err := m.Get(ctx, name)
	if err != nil {
		return err
	}

	_, err, _ = m.group.Do("load:"+name, func() (any, error) {
		return nil, m.prov.Load(ctx, info.Path)
	})
	if err != nil {
		return buderrors.NewLoadError(name, "provider failed to load plugin", err)
	}
	return nil
}

// Invoke implements §4.5's invoke operation: ensure installed, assert
// loaded, delegate.
func (m *Manager) Invoke(ctx context.Context, name, function string, args []value.Value) (value.Value, error) {
	if _, err := m.Get(ctx, name); err != nil {
		return value.Null, err
	}

	var loaded bool
	m.prov.WithPlugins(func(names []string) {
		for _, n := range names {
			if n == name {
				loaded = true
				return
			}
		}
	})
	if !loaded {
		return value.Null, buderrors.NewLoadError(name, "plugin is installed but not loaded; you must load the plugin first", nil)
	}

	result, err := m.prov.Invoke(ctx, name, function, args)
	if err != nil {
		return value.Null, buderrors.NewInvokeError(name, function, err)
	}
	return result, nil
}

func loadManifestFromDir(dir, expectedName string) (PluginInfo, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "plugin.json"))
	if err != nil {
		return PluginInfo{}, fmt.Errorf("failed to read plugin.json: %w", err)
	}

	mf, err := manifest.ValidateWithExpectedName(raw, expectedName)
	if err != nil {
		return PluginInfo{}, err
	}
	return PluginInfo{Manifest: mf, Path: dir}, nil
}
