// Package config defines the chainmap-cli configuration structure.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/chainmap-go/internal/infra/confloader"
)

// Config is the configuration for chainmap-cli.
type Config struct {
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
	Log      LogConfig      `koanf:"log"`
}

// StorageConfig controls the snapshot directory and retention.
type StorageConfig struct {
	// DataDir is the snapshot directory.
	DataDir string `koanf:"data_dir"`

	// RetentionCount and RetentionDays bound pruning; zero takes the
	// manager defaults.
	RetentionCount int `koanf:"retention_count"`
	RetentionDays  int `koanf:"retention_days"`
}

// SecurityConfig controls snapshot encryption. Either a raw hex key or
// a passphrase (with optional hex salt) may be given, not both.
type SecurityConfig struct {
	// EncryptionKey is a hex-encoded 32-byte key.
	EncryptionKey string `koanf:"encryption_key"`

	// Passphrase derives the key via Argon2id when set.
	Passphrase string `koanf:"passphrase"`

	// Salt is the hex-encoded salt for passphrase derivation. A fresh
	// salt is generated (and must be persisted) when empty.
	Salt string `koanf:"salt"`

	// Algorithm selects the AEAD: aes-gcm, chacha20-poly1305, or empty
	// for the platform default.
	Algorithm string `koanf:"algorithm"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the default CLI configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: "./chainmap-data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".chainmap", "cli.yaml")
}

// Load builds the effective configuration: defaults, then the config
// file (if path is non-empty or the default path exists), then
// CHAINMAP_* environment variables, then flag overrides.
func Load(path string, overrides map[string]any) (*Config, error) {
	if path == "" {
		if def := DefaultConfigPath(); fileExists(def) {
			path = def
		}
	}

	opts := []confloader.Option{}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	l := confloader.NewLoader(opts...)

	cfg := Default()
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("config: storage.data_dir is required")
	}
	if c.Storage.RetentionCount < 0 || c.Storage.RetentionDays < 0 {
		return fmt.Errorf("config: retention values must not be negative")
	}

	s := c.Security
	if s.EncryptionKey != "" && s.Passphrase != "" {
		return fmt.Errorf("config: encryption_key and passphrase are mutually exclusive")
	}
	if s.EncryptionKey != "" {
		key, err := hex.DecodeString(s.EncryptionKey)
		if err != nil {
			return fmt.Errorf("config: encryption_key is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("config: encryption_key must be 32 bytes, got %d", len(key))
		}
	}
	if s.Salt != "" {
		if _, err := hex.DecodeString(s.Salt); err != nil {
			return fmt.Errorf("config: salt is not valid hex: %w", err)
		}
		if s.Passphrase == "" {
			return fmt.Errorf("config: salt is only meaningful with a passphrase")
		}
	}
	switch s.Algorithm {
	case "", "aes-gcm", "chacha20-poly1305":
	default:
		return fmt.Errorf("config: unknown algorithm %q", s.Algorithm)
	}
	return nil
}

// Encrypts reports whether snapshots should be sealed.
func (c *Config) Encrypts() bool {
	return c.Security.EncryptionKey != "" || c.Security.Passphrase != ""
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
