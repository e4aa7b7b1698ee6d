package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
project:
  root: ./src
solvers:
  order: [reflection, source, archive]
  source_roots: [./src/main/java]
  archives: [./lib/core.jar]
cache:
  capacity: 128
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./src", cfg.Project.Root)
	assert.Equal(t, []string{"reflection", "source", "archive"}, cfg.Solvers.Order)
	assert.Equal(t, []string{"./lib/core.jar"}, cfg.Solvers.Archives)
	assert.Equal(t, 128, cfg.Cache.Capacity)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, []string{"reflection", "source"}, cfg.Solvers.Order)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
solvers:
  order: [reflection, llm]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JAVASYM_CACHE_CAPACITY", "64")
	t.Setenv("JAVASYM_SOLVER_ORDER", "source,reflection")

	cfg, err := Load(writeConfig(t, `
cache:
  capacity: 8
`))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.Equal(t, []string{"source", "reflection"}, cfg.Solvers.Order)
}
