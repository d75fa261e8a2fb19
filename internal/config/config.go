// Package config provides configuration loading and structs for the productos server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludmilasolutions/productos/internal/scoring"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool            `yaml:"debug"`
	Server  ServerConfig    `yaml:"server"`
	Catalog CatalogConfig   `yaml:"catalog"`
	Search  SearchConfig    `yaml:"search"`
	Scoring scoring.Weights `yaml:"scoring"`
	Share   ShareConfig     `yaml:"share"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds catalog source and ingestion settings. When both
// source_path and source_url are set, the local path wins.
type CatalogConfig struct {
	SourceURL           string `yaml:"source_url"`
	SourcePath          string `yaml:"source_path"`
	SnapshotPath        string `yaml:"snapshot_path"`
	BatchSize           int    `yaml:"batch_size"`
	YieldEvery          int    `yaml:"yield_every"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	Watch               bool   `yaml:"watch"`
}

// SearchConfig holds query engine and result delivery settings.
type SearchConfig struct {
	MaxResults  int    `yaml:"max_results"`
	CacheSize   int    `yaml:"cache_size"`
	PageSize    int    `yaml:"page_size"`
	DebounceMS  int    `yaml:"debounce_ms"`
	DefaultSort string `yaml:"default_sort"`
}

// ShareConfig holds outbound message settings.
type ShareConfig struct {
	WhatsAppPhone string `yaml:"whatsapp_phone"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	if cfg.Catalog.SourcePath != "" {
		cfg.Catalog.SourcePath = expandPath(cfg.Catalog.SourcePath, configDir)
	}
	cfg.Catalog.SnapshotPath = expandPath(cfg.Catalog.SnapshotPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
