package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix kvs environment overrides carry:
// KVS_ADDR, KVS_ENGINE, KVS_TP.
const DefaultEnvPrefix = "KVS_"

// Loader layers configuration sources into one koanf tree. Precedence is
// flags over environment over defaults; flags are applied by the caller
// after Load, so the loader itself only handles the lower two layers.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// NewLoader creates a loader with the default KVS_ prefix.
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

// Load reads the environment and unmarshals the result into target,
// which uses koanf struct tags for field mapping.
func (l *Loader) Load(target any) error {
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("confloader: unmarshal: %w", err)
	}
	return nil
}

// LoadEnv reads every environment variable carrying the loader's prefix
// into the tree. KVS_ADDR becomes the key "addr", and underscores after
// the prefix become key-path separators.
func (l *Loader) LoadEnv() error {
	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("confloader: load env: %w", err)
	}
	return nil
}

// LoadMap merges a plain map into the tree, mainly for tests and
// programmatic defaults.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("confloader: load map: %w", err)
	}
	return nil
}

// GetString returns the string at key, empty if absent.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt returns the int at key, zero if absent.
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}
