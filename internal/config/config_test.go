package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, ":10000", cfg.Server.Addr)
	require.Equal(t, "data/bank_account_data.json", cfg.Storage.StateFile)
	require.Equal(t, "0 5 0 * * *", cfg.Schedule.DailyCron)
	require.Equal(t, 60, cfg.Ledger.ExtendCooldownSeconds)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
storage:
  sqlite_path: "data/bank.db"
ledger:
  extend_cooldown_seconds: 120
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "data/bank.db", cfg.Storage.SQLitePath)
	require.Equal(t, 120, cfg.Ledger.ExtendCooldownSeconds)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SQLITE_PATH", "/tmp/bank.db")
	t.Setenv("EXTEND_COOLDOWN_SECONDS", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "/tmp/bank.db", cfg.Storage.SQLitePath)
	require.Equal(t, 5, cfg.Ledger.ExtendCooldownSeconds)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.Server.Addr = ":10000"
	require.Error(t, cfg.Validate())

	cfg.Storage.StateFile = "state.json"
	require.NoError(t, cfg.Validate())

	cfg.Ledger.ExtendCooldownSeconds = -1
	require.Error(t, cfg.Validate())
}
