// Package config loads kinforge configuration from a TOML file.
//
// The file lives at ~/.config/kinforge/config.toml by default. Every field
// has a working default, so a missing file is not an error - the zero
// configuration runs entirely from local files with no external services.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds all tunable settings.
type Config struct {
	// DataPath is the tree collection file used by the CLI.
	DataPath string `toml:"data_path"`

	// CacheBackend selects the layout cache: "file", "redis" or "none".
	CacheBackend string `toml:"cache_backend"`
	CacheDir     string `toml:"cache_dir"`
	RedisAddr    string `toml:"redis_addr"`

	// MongoURI enables the MongoDB tree store for `kinforge serve` when
	// non-empty; otherwise the server uses the file store.
	MongoURI string `toml:"mongo_uri"`

	// Listen is the HTTP listen address for `kinforge serve`.
	Listen string `toml:"listen"`

	// SVGBackground is the background color for rendered SVGs; empty means
	// transparent.
	SVGBackground string `toml:"svg_background"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CacheBackend: CacheBackendFile,
		RedisAddr:    "localhost:6379",
		Listen:       "localhost:8085",
	}
}

// DefaultPath returns ~/.config/kinforge/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "kinforge", "config.toml"), nil
}

// Load reads the TOML file at path, layering it over [Default]. A missing
// file returns the defaults; a malformed file returns an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
		return nil
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
}
