package runtime

import (
	"testing"

	"github.com/cretz/sandboxd/config"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	disabled := cfg.Runtimes["python310"]
	disabled.Enabled = false
	cfg.Runtimes["python310"] = disabled
	return cfg
}

func TestResolveExactMatch(t *testing.T) {
	reg := NewRegistry(testConfig())
	d, ok := reg.Resolve("nodejs")
	require.True(t, ok)
	require.Equal(t, FamilyJS, d.Family)
}

func TestResolvePythonAliasesToPython3(t *testing.T) {
	reg := NewRegistry(testConfig())
	d, ok := reg.Resolve("python")
	require.True(t, ok)
	require.Equal(t, "python3", d.Name)
	require.Equal(t, FamilyPython, d.Family)
}

func TestResolveDisabledRuntimeNotFound(t *testing.T) {
	reg := NewRegistry(testConfig())
	_, ok := reg.Resolve("python310")
	require.False(t, ok)
}

func TestResolveUnknownRuntimeNotFound(t *testing.T) {
	reg := NewRegistry(testConfig())
	_, ok := reg.Resolve("ruby")
	require.False(t, ok)
}

func TestAllIncludesDisabledEntries(t *testing.T) {
	reg := NewRegistry(testConfig())
	all := reg.All()
	require.Contains(t, all, "python310")
	require.False(t, all["python310"].Enabled)
}
