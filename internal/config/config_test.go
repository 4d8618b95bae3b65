package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Scan.Workers)
	assert.Equal(t, ".docid/registry.yaml", cfg.Paths.Registry)
	assert.Equal(t, 0.55, cfg.Validation.CoverageBaseline)
	assert.Equal(t, "SCRIPT", cfg.Categories["script"].Prefix)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docid", "config.yaml")

	cfg := DefaultConfig()
	cfg.Scan.Workers = 4
	cfg.Validation.CoverageBaseline = 0.8
	cfg.Categories["runbook"] = CategorySeed{Prefix: "RUNBOOK"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Scan.Workers)
	assert.Equal(t, 0.8, loaded.Validation.CoverageBaseline)
	assert.Equal(t, "RUNBOOK", loaded.Categories["runbook"].Prefix)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, ".docid/inventory.jsonl", cfg.Paths.Inventory, "unset keys keep their defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCID_WORKSPACE", "/srv/docs")
	t.Setenv("DOCID_REGISTRY", "/srv/docs/registry.yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", cfg.Workspace)
	assert.Equal(t, "/srv/docs/registry.yaml", cfg.Paths.Registry)
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workspace = "/work"
	assert.Equal(t, filepath.Join("/work", ".docid/registry.yaml"), cfg.Resolve(cfg.Paths.Registry))
	assert.Equal(t, "/abs/registry.yaml", cfg.Resolve("/abs/registry.yaml"))

	cfg.Workspace = ""
	assert.Equal(t, ".docid/registry.yaml", cfg.Resolve(cfg.Paths.Registry))
}

func TestLockBaseDelay(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100*time.Millisecond, cfg.LockBaseDelay())

	cfg.Lock.BaseDelay = "250ms"
	assert.Equal(t, 250*time.Millisecond, cfg.LockBaseDelay())

	cfg.Lock.BaseDelay = "garbage"
	assert.Equal(t, 100*time.Millisecond, cfg.LockBaseDelay(), "unparseable delay falls back")
}

func TestIsBlocking(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsBlocking("format"))
	assert.True(t, cfg.IsBlocking("uniqueness"))
	assert.False(t, cfg.IsBlocking("coverage"))
}

func TestValidate(t *testing.T) {
	t.Run("baseline out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Validation.CoverageBaseline = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive lock attempts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Lock.Attempts = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("category without prefix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Categories["bad"] = CategorySeed{}
		assert.Error(t, cfg.Validate())
	})
}
