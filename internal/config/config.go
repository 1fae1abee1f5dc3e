// Package config loads application settings from an optional yaml file
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	UI     UIConfig     `yaml:"ui"`
}

// ServerConfig holds Remote Learning Service connection settings.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url" env:"MANABO_SERVER_URL" env-default:"http://localhost:8000/api"`
	Timeout time.Duration `yaml:"timeout"  env:"MANABO_SERVER_TIMEOUT" env-default:"60s"`
}

// StoreConfig holds local database settings. An empty path falls back to
// the XDG default resolved at open time.
type StoreConfig struct {
	Path string `yaml:"path" env:"MANABO_DB"`
}

// UIConfig holds display defaults.
type UIConfig struct {
	ShowCorrections     bool   `yaml:"show_corrections"     env:"MANABO_SHOW_CORRECTIONS" env-default:"true"`
	RecommendationLimit int    `yaml:"recommendation_limit" env:"MANABO_RECOMMENDATION_LIMIT" env-default:"3"`
	DownloadDir         string `yaml:"download_dir"         env:"MANABO_DOWNLOAD_DIR"`
}

// Load reads configuration from path (if non-empty) merged with the
// environment. With no file, environment and defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}

// ResolveDownloadDir returns the configured download directory, or
// ~/Downloads, or the working directory as a last resort.
func (c *Config) ResolveDownloadDir() string {
	if c.UI.DownloadDir != "" {
		return c.UI.DownloadDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return "."
}
