package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := Default()
	require.Equal(t, 5*time.Second, cfg.Script.Timeout)
	require.Equal(t, 50, cfg.Script.MaxDepth)
	require.True(t, cfg.DelayQueue.Enabled)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_port": 9999, "script": {"max_depth": 10}}`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.ListenPort)
	require.Equal(t, 10, cfg.Script.MaxDepth)
	require.Equal(t, 5*time.Second, cfg.Script.Timeout) // untouched default survives
}

func TestLoadFromEnvOverridesFields(t *testing.T) {
	t.Setenv("ATRIUM_LISTEN_PORT", "4242")
	t.Setenv("ATRIUM_LOG_LEVEL", "debug")

	cfg := Default()
	LoadFromEnv(cfg)
	require.Equal(t, 4242, cfg.ListenPort)
	require.Equal(t, "debug", cfg.Logging.Level)
}
