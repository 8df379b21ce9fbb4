package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Storage.DataDir == "" {
		t.Error("default DataDir is empty")
	}
	if cfg.Encrypts() {
		t.Error("default config claims encryption")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
storage:
  data_dir: /srv/snapshots
  retention_count: 10
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != "/srv/snapshots" {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, "/srv/snapshots")
	}
	if cfg.Storage.RetentionCount != 10 {
		t.Errorf("RetentionCount = %d, want 10", cfg.Storage.RetentionCount)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "debug")
	}
	// Untouched sections keep their defaults.
	if cfg.Log.Format != "text" {
		t.Errorf("Format = %q, want default %q", cfg.Log.Format, "text")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("", map[string]any{"storage.data_dir": "/from/flag"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != "/from/flag" {
		t.Errorf("DataDir = %q, want flag override %q", cfg.Storage.DataDir, "/from/flag")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CHAINMAP_LOG_LEVEL", "warn")
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want env %q", cfg.Log.Level, "warn")
	}
}

func TestValidate(t *testing.T) {
	key32 := strings.Repeat("ab", 32)
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid key", func(c *Config) { c.Security.EncryptionKey = key32 }, false},
		{"key and passphrase", func(c *Config) {
			c.Security.EncryptionKey = key32
			c.Security.Passphrase = "hunter2hunter2"
		}, true},
		{"short key", func(c *Config) { c.Security.EncryptionKey = "abcd" }, true},
		{"bad hex key", func(c *Config) { c.Security.EncryptionKey = "zz" }, true},
		{"salt without passphrase", func(c *Config) { c.Security.Salt = "00112233" }, true},
		{"salt with passphrase", func(c *Config) {
			c.Security.Passphrase = "hunter2hunter2"
			c.Security.Salt = "00112233445566778899aabbccddeeff"
		}, false},
		{"unknown algorithm", func(c *Config) { c.Security.Algorithm = "rot13" }, true},
		{"chacha algorithm", func(c *Config) { c.Security.Algorithm = "chacha20-poly1305" }, false},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"negative retention", func(c *Config) { c.Storage.RetentionCount = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncrypts(t *testing.T) {
	cfg := Default()
	cfg.Security.Passphrase = "hunter2hunter2"
	if !cfg.Encrypts() {
		t.Error("Encrypts() = false with passphrase set")
	}
}
