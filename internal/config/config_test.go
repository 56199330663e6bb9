package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_rule: "^h:"
rules:
  "h:example": "^h:example\\|"
metrics_addr: ":9091"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "^h:", cfg.DefaultRule)
	require.Equal(t, map[string]string{"h:example": `^h:example\|`}, cfg.Rules)
	require.Equal(t, ":9091", cfg.MetricsAddr)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.Folder)
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("TRAPH_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}
