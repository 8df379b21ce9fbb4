package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "CHAINMAP_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads the configured file (if any), then environment variables
// on top, and unmarshals the result into target. Flag overrides are
// applied separately via LoadMap before calling Unmarshal.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}
	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads configuration from environment variables.
// Variables use the format CHAINMAP_SECTION_KEY (uppercase,
// underscores); CHAINMAP_STORAGE_DATA_DIR maps to storage.data_dir.
func (l *Loader) LoadEnv() error {
	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		// Only the first separator starts a section; the rest of the
		// name keeps its underscores (storage.data_dir).
		return strings.Replace(s, "_", ".", 1)
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap loads configuration from a map. Flag values go through here
// so they override file and environment sources.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into target using
// koanf struct tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// GetString returns a string value by key.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// All returns all loaded configuration as a flat map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}
