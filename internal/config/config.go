package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		StateFile  string `yaml:"state_file"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Ledger struct {
		ExtendCooldownSeconds int `yaml:"extend_cooldown_seconds"`
	} `yaml:"ledger"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BANK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.Storage.StateFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("EXTEND_COOLDOWN_SECONDS"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
			cfg.Ledger.ExtendCooldownSeconds = secs
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":10000"
	}
	if cfg.Storage.StateFile == "" {
		cfg.Storage.StateFile = "data/bank_account_data.json"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 5 0 * * *"
	}
	if cfg.Ledger.ExtendCooldownSeconds == 0 {
		cfg.Ledger.ExtendCooldownSeconds = 60
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Storage.StateFile == "" && c.Storage.SQLitePath == "" {
		return fmt.Errorf("one of storage.state_file or storage.sqlite_path is required")
	}
	if c.Ledger.ExtendCooldownSeconds < 0 {
		return fmt.Errorf("ledger.extend_cooldown_seconds must not be negative")
	}
	return nil
}
