package datadir_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seho-dev/bud/internal/datadir"
)

func TestResolve_CreatesDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("APPDATA", "")

	dir, err := datadir.Resolve("bud")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolve_HonoursXDGOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_DATA_HOME only governs resolution on linux/other unix targets")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	dir, err := datadir.Resolve("my-app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "my-app"), dir)
}
