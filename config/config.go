// Package config loads the daemon configuration from TOML with defaults
// applied before validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"tokengov/ledger"
)

// Config is the tokengovd runtime configuration.
type Config struct {
	// DataDir is the badger database directory. Empty means in-memory.
	DataDir string `toml:"data_dir"`
	// LogLevel is a zerolog level name (trace..error).
	LogLevel string `toml:"log_level"`
	// Program is the hex-encoded program address every derived address
	// hangs off. Two deployments sharing a store must use distinct
	// programs.
	Program string `toml:"program"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:  "",
		LogLevel: "info",
		Program:  ledger.DeriveAddress([]byte("tokengov/default-program")).String(),
	}
}

// Load reads a TOML config file, fills defaults and validates. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Program == "" {
		cfg.Program = Default().Program
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted away.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config has unknown log level %q", cfg.LogLevel)
	}
	if _, err := ledger.AddressFromString(cfg.Program); err != nil {
		return fmt.Errorf("config has invalid program address: %w", err)
	}
	return nil
}

// ProgramAddress parses the configured program address.
func (c Config) ProgramAddress() (ledger.Address, error) {
	return ledger.AddressFromString(c.Program)
}
