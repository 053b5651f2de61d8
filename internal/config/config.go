// Package config handles the global configuration file and local data
// paths. Config lives under XDG_CONFIG_HOME, cache data under
// XDG_DATA_HOME. Environment variables override file values so scripts can
// point a single invocation at a different backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration stored in config.yml.
type Config struct {
	BackendURL string `yaml:"backend_url,omitempty"`
	AIProvider string `yaml:"ai_provider,omitempty"`
	AIModel    string `yaml:"ai_model,omitempty"`
	Viewer     string `yaml:"viewer,omitempty"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

const (
	// ConfigDirName is the directory under XDG_CONFIG_HOME and
	// XDG_DATA_HOME.
	ConfigDirName = "shelf"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yml"

	// LibraryFile is the local snapshot of the remote library.
	LibraryFile = "library.jsonl"
	// DBFile is the ephemeral search index built from the snapshot.
	DBFile = "library.db"
)

// EnvBackendURL overrides backend_url from the environment.
const EnvBackendURL = "SHELF_BACKEND_URL"

// cache caches the loaded config for the process lifetime.
var cache *Config

// Path returns the config file location. Respects XDG_CONFIG_HOME,
// defaulting to ~/.config/shelf/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName)
}

// Load reads the config file, applying environment overrides. A missing
// file yields an empty config, not an error.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	cfg := &Config{}
	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.BackendURL = v
	}
	if cfg.DataDir != "" {
		cfg.DataDir = ExpandTilde(cfg.DataDir)
	}

	cache = cfg
	return cfg, nil
}

// Save writes the config file, creating its directory if needed, and
// refreshes the cache.
func Save(cfg *Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cache = cfg
	return nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	cache = nil
}

// DataDir returns the local data directory, honoring the data_dir config
// override, then XDG_DATA_HOME, then ~/.local/share/shelf.
func DataDir() string {
	if cfg, err := Load(); err == nil && cfg.DataDir != "" {
		return cfg.DataDir
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDirName)
}

// LibraryPath returns the local library snapshot path.
func LibraryPath() string {
	return filepath.Join(DataDir(), LibraryFile)
}

// DBPath returns the local search index path.
func DBPath() string {
	return filepath.Join(DataDir(), DBFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
