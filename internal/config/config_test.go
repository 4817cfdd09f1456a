package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DEALFLOW_DB", "DEALFLOW_ADDR", "DEALFLOW_LOG_LEVEL", "DEALFLOW_SEED", "DEALFLOW_TOUCH"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.ToastTTL())
	assert.Equal(t, 2*time.Second, cfg.ProcessingDelay())
	assert.Equal(t, "kanban", cfg.Board.View)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Board.ToastTTL = "500ms"
	cfg.Board.Touch = true
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, loaded.ToastTTL())
	assert.True(t, loaded.Board.Touch)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "3s", cfg.Board.ToastTTL)
}

func TestLoad_BoardSource(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board:\n  seed_file: deals.yaml\n  from_catalog: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deals.yaml", cfg.Board.SeedFile)
	assert.True(t, cfg.Board.FromCatalog)
	assert.Equal(t, "3s", cfg.Board.ToastTTL)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("board:\n  toast_ttl: soon\n"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "board.toast_ttl")

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("logging:\n  level: loud\n"), 0o644))
	_, err = Load(level)
	assert.ErrorContains(t, err, "logging.level")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("values replace file settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DEALFLOW_DB", "/tmp/x.db")
		t.Setenv("DEALFLOW_ADDR", ":1234")
		t.Setenv("DEALFLOW_SEED", "seed.yaml")
		t.Setenv("DEALFLOW_TOUCH", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
		assert.Equal(t, ":1234", cfg.Server.Addr)
		assert.Equal(t, "seed.yaml", cfg.Board.SeedFile)
		assert.True(t, cfg.Board.Touch)
	})

	t.Run("unparseable touch flag is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DEALFLOW_TOUCH", "maybe")

		cfg := DefaultConfig()
		cfg.Board.Touch = true
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Board.Touch)
	})
}
