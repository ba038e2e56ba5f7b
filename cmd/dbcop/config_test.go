package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsSerializable(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "serializable", cfg.Level)
	require.Empty(t, cfg.CacheDir)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbcop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: causal\ncache_dir: /tmp/dbcop-cache\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "causal", cfg.Level)
	require.Equal(t, "/tmp/dbcop-cache", cfg.CacheDir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/dbcop.yaml")
	require.Error(t, err)
}
