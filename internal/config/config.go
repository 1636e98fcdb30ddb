// ABOUTME: Habits configuration management with backend selection.
// ABOUTME: Handles settings, the streak reference timezone, and the storage backend factory.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/habits/internal/storage"
)

// Supported storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendMarkdown = "markdown"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Backends lists every supported backend name.
var Backends = []string{BackendSQLite, BackendMarkdown, BackendBadger, BackendPostgres}

// PostgresDSNEnv overrides the configured Postgres connection string.
const PostgresDSNEnv = "HABITS_POSTGRES_DSN"

// Config stores habits tool configuration.
type Config struct {
	// Backend selects the storage backend: sqlite (default), markdown, badger or postgres.
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage and logs.
	// SQLite puts habits.db here, markdown puts habits/ and completions/ here,
	// badger uses kv/. Supports ~ expansion. Defaults to ~/.local/share/habits.
	DataDir string `json:"data_dir,omitempty"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `json:"postgres_dsn,omitempty"`

	// Timezone is the IANA zone whose calendar days streaks are counted in.
	// Empty means the local zone.
	Timezone string `json:"timezone,omitempty"`

	// UserID scopes habits and completions. Defaults to the OS user name.
	UserID string `json:"user_id,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetPostgresDSN returns the Postgres connection string. The environment
// variable wins over the config file.
func (c *Config) GetPostgresDSN() string {
	if dsn := os.Getenv(PostgresDSNEnv); dsn != "" {
		return dsn
	}
	return c.PostgresDSN
}

// Location returns the streak reference zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetUserID returns the configured user, falling back to the OS user.
func (c *Config) GetUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir(), c.GetPostgresDSN())
}

// OpenBackend opens the named backend rooted at dataDir. dsn is only used by postgres.
func OpenBackend(backend, dataDir, dsn string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(storage.DBPath(dataDir))
	case BackendMarkdown:
		return storage.NewMarkdownStore(dataDir)
	case BackendBadger:
		return storage.OpenKV(storage.KVDir(dataDir))
	case BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return storage.OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Keys returns the settable config keys in sorted order.
func Keys() []string {
	keys := []string{"backend", "data_dir", "postgres_dsn", "timezone", "user_id"}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value of key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend":
		return c.Backend, nil
	case "data_dir":
		return c.DataDir, nil
	case "postgres_dsn":
		return c.PostgresDSN, nil
	case "timezone":
		return c.Timezone, nil
	case "user_id":
		return c.UserID, nil
	default:
		return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
}

// Set validates and assigns value to key. An empty value resets it to the default.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if value != "" && !isBackend(value) {
			return fmt.Errorf("unknown backend: %q (valid: %s)", value, strings.Join(Backends, ", "))
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "postgres_dsn":
		c.PostgresDSN = value
	case "timezone":
		if value != "" {
			if _, err := time.LoadLocation(value); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", value, err)
			}
		}
		c.Timezone = value
	case "user_id":
		c.UserID = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func isBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "habits", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
