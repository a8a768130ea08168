package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultHasCorePythonRuntime(t *testing.T) {
	cfg := Default()
	py, ok := cfg.Runtimes["python3"]
	require.True(t, ok)
	require.True(t, py.Enabled)
	require.Contains(t, py.AllowedPackages, "json")
}

func TestLoadFallsBackOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, filepath.Join(dir, "does-not-exist.yaml"))
	cfg := Load()
	require.Equal(t, Default(), cfg)
}

func TestLoadFallsBackOnInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid yaml"), 0644))
	t.Setenv(EnvPath, path)
	cfg := Load()
	require.Equal(t, Default(), cfg)
}

func TestLoadDeepMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  max_queue_size: 99
runtimes:
  python3:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvPath, path)
	cfg := Load()

	require.Equal(t, 99, cfg.Server.MaxQueueSize)
	// Unspecified scalar in the same section keeps the default.
	require.Equal(t, 10, cfg.Server.MaxConcurrentRequests)
	// Overridden nested runtime key takes the new value.
	require.False(t, cfg.Runtimes["python3"].Enabled)
	// Lists are replaced wholesale, not merged, but when untouched the
	// default survives.
	require.Equal(t, Default().Runtimes["python3"].AllowedPackages, cfg.Runtimes["python3"].AllowedPackages)
	// Untouched runtime entries are unaffected.
	require.True(t, cfg.Runtimes["nodejs"].Enabled)
}

func TestLoadReplacesListsWholesale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
runtimes:
  python3:
    allowed_packages: ["json"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvPath, path)
	cfg := Load()
	require.Equal(t, []string{"json"}, cfg.Runtimes["python3"].AllowedPackages)
}
