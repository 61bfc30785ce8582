// Package rootconfig loads and validates bud.json, the Root Config every
// harness build starts from (§3, §6). Grounded in the teacher's
// internal/config/loader.go: os.OpenRoot guards against path traversal
// escaping the intended directory, generalised here from YAML to the JSON
// document bud.json actually uses, and from profile-shaped defaults to
// manifest.ValidateRootConfig's schema validation.
package rootconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seho-dev/bud/internal/buderrors"
	"github.com/seho-dev/bud/internal/manifest"
)

// FileName is the root config's fixed filename within a bud project.
const FileName = "bud.json"

// Load reads and validates dir/bud.json, returning a ConfigError on any
// failure: FileNotFound when the file is absent, IoError on unexpected
// read failures, and ValidationError when the document is not valid JSON
// or fails schema validation.
func Load(dir string) (*manifest.RootConfig, error) {
	path := filepath.Join(dir, FileName)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, buderrors.NewConfigError(buderrors.ConfigIoError, path, fmt.Errorf("failed to open project directory: %w", err))
	}
	defer root.Close()

	file, err := root.Open(FileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, buderrors.NewConfigError(buderrors.ConfigFileNotFound, path, err)
		}
		return nil, buderrors.NewConfigError(buderrors.ConfigIoError, path, err)
	}
	defer file.Close()

	return LoadFromReader(file, path)
}

// LoadFromReader validates a root config document already opened by the
// caller, useful for testing against in-memory JSON. path is carried only
// for error context.
func LoadFromReader(r io.Reader, path string) (*manifest.RootConfig, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, buderrors.NewConfigError(buderrors.ConfigIoError, path, fmt.Errorf("failed to read root config: %w", err))
	}

	cfg, err := manifest.ValidateRootConfig(raw)
	if err != nil {
		return nil, buderrors.NewConfigError(buderrors.ConfigValidationError, path, err)
	}
	return cfg, nil
}
