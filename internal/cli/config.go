package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/srcfetch/pkg/cache"
	"github.com/matzehuels/srcfetch/pkg/results"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/srcfetch/config.toml (or $XDG_CONFIG_HOME/srcfetch/config.toml).
// Every field has a working default; a missing file is not an error.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Results ResultsConfig `toml:"results"`
	Clients ClientsConfig `toml:"clients"`
}

// CacheConfig selects the remote-metadata cache backend.
type CacheConfig struct {
	// Backend is one of "file" (default), "redis" or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ResultsConfig selects where download records are persisted.
type ResultsConfig struct {
	// Backend is one of "file" (default) or "mongo".
	Backend string `toml:"backend"`

	// Dir overrides the file store directory.
	Dir string `toml:"dir"`

	// Mongo connection settings, used when Backend is "mongo".
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ClientsConfig overrides the VCS client binaries, e.g. to pin a specific
// git installation.
type ClientsConfig struct {
	Git string `toml:"git"`
	Hg  string `toml:"hg"`
	Svn string `toml:"svn"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Cache:   CacheConfig{Backend: "file"},
		Results: ResultsConfig{Backend: "file"},
	}
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path. An absent file yields the
// defaults; a present but malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// MustLoadConfig loads the default config file, falling back to defaults on
// any error. Intended for CLI startup where a broken config file should not
// make every command unusable.
func MustLoadConfig() *Config {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return DefaultConfig()
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Results.Backend {
	case "", "file", "mongo":
	default:
		return fmt.Errorf("unknown results backend %q", c.Results.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache backend redis requires redis_addr")
	}
	if c.Results.Backend == "mongo" && c.Results.MongoURI == "" {
		return fmt.Errorf("results backend mongo requires mongo_uri")
	}
	return nil
}

// openCache builds the configured metadata cache.
func (c *Config) openCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
	default:
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// openResultStore builds the configured download-record store.
func (c *Config) openResultStore(ctx context.Context) (results.Store, error) {
	if c.Results.Backend == "mongo" {
		return results.NewMongoStore(ctx, results.MongoConfig{
			URI:        c.Results.MongoURI,
			Database:   c.Results.MongoDatabase,
			Collection: c.Results.MongoCollection,
		})
	}
	return results.NewFileStore(c.Results.Dir)
}

// clientLookup maps VCS client names to the configured binaries. Unset
// overrides fall through to PATH lookup.
func (c *Config) clientLookup() func(name string) string {
	overrides := map[string]string{
		"git": c.Clients.Git,
		"hg":  c.Clients.Hg,
		"svn": c.Clients.Svn,
	}
	return func(name string) string {
		return overrides[strings.ToLower(name)]
	}
}
