// Package datadir resolves the OS-appropriate per-application data root
// bud anchors its plugin cache under (§6). No ready-made "project dirs"
// library turned up anywhere in the retrieved corpus, so the per-OS rules
// below are hand-rolled; github.com/mitchellh/go-homedir — present across
// the corpus's go.mod manifests as an indirect dependency — supplies the
// $HOME fallback the way it does for the packages that pull it in.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/seho-dev/bud/internal/buderrors"
)

// Qualifier and Organisation identify bud in the per-OS data root
// convention (reverse-DNS-flavoured; on macOS they form the bundle id
// "com.bud.<name>").
const (
	Qualifier    = "com"
	Organisation = "bud"
)

// Resolve returns the directory bud should use as the persistent data
// root for application (normally "bud" itself), creating it and any
// missing parents if needed.
//
//   - Windows: %APPDATA%\bud\<application>\data
//   - macOS:   ~/Library/Application Support/com.bud.<application>
//   - other:   $XDG_DATA_HOME/<application> or ~/.local/share/<application>
func Resolve(application string) (string, error) {
	dir, err := resolvePath(application)
	if err != nil {
		return "", buderrors.NewProjectDirsError(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", buderrors.NewProjectDirsError(fmt.Errorf("failed to create data directory %q: %w", dir, err))
	}
	return dir, nil
}

func resolvePath(application string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, Organisation, application, "data"), nil
		}
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home directory: %w", err)
		}
		return filepath.Join(home, "AppData", "Roaming", Organisation, application, "data"), nil
	case "darwin":
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home directory: %w", err)
		}
		bundleID := fmt.Sprintf("%s.%s.%s", Qualifier, Organisation, application)
		return filepath.Join(home, "Library", "Application Support", bundleID), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, application), nil
		}
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", application), nil
	}
}
