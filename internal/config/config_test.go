package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludmilasolutions/productos/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  source_url: "https://example.com/catalog.json"
search:
  cache_size: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.SourceURL != "https://example.com/catalog.json" {
		t.Errorf("source_url = %q", cfg.Catalog.SourceURL)
	}
	if cfg.Search.CacheSize != 5 {
		t.Errorf("cache_size = %d, want explicit 5", cfg.Search.CacheSize)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  source_url: "https://example.com/catalog.json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Catalog.BatchSize != 1000 || cfg.Catalog.YieldEvery != 1 {
		t.Errorf("catalog defaults = %+v", cfg.Catalog)
	}
	if cfg.Catalog.FetchTimeoutSeconds != 30 {
		t.Errorf("fetch_timeout_seconds = %d, want 30", cfg.Catalog.FetchTimeoutSeconds)
	}
	if cfg.Search.MaxResults != 200 || cfg.Search.CacheSize != 50 || cfg.Search.PageSize != 20 {
		t.Errorf("search defaults = %+v", cfg.Search)
	}
	if cfg.Search.DebounceMS != 300 {
		t.Errorf("debounce_ms = %d, want 300", cfg.Search.DebounceMS)
	}
	if cfg.Search.DefaultSort != models.SortRelevance {
		t.Errorf("default_sort = %q, want relevance", cfg.Search.DefaultSort)
	}
	if cfg.Scoring.CodeExact == 0 || cfg.Scoring.Normalizer == 0 {
		t.Errorf("scoring defaults not applied: %+v", cfg.Scoring)
	}
	if cfg.Catalog.SnapshotPath == "" {
		t.Error("snapshot_path should have a default")
	}
}

func TestLoad_InvalidSortFallsBack(t *testing.T) {
	path := writeConfig(t, `
search:
  default_sort: "cheapest_first"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.DefaultSort != models.SortRelevance {
		t.Errorf("default_sort = %q, want relevance fallback", cfg.Search.DefaultSort)
	}
}

func TestLoad_ScoringOverride(t *testing.T) {
	path := writeConfig(t, `
scoring:
  code_exact: 500
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scoring.CodeExact != 500 {
		t.Errorf("code_exact = %v, want 500", cfg.Scoring.CodeExact)
	}
	if cfg.Scoring.DescriptionWord == 0 {
		t.Error("unset scoring fields should keep defaults")
	}
}

func TestLoad_ExpandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
catalog:
  source_path: "./catalog.json"
  snapshot_path: "./data/catalog.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if !strings.HasPrefix(cfg.Catalog.SourcePath, dir) {
		t.Errorf("source_path = %q, want under config dir %q", cfg.Catalog.SourcePath, dir)
	}
	if !strings.HasPrefix(cfg.Catalog.SnapshotPath, dir) {
		t.Errorf("snapshot_path = %q, want under config dir %q", cfg.Catalog.SnapshotPath, dir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on a missing file returned nil error")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "catalog: [not: valid")
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed yaml returned nil error")
	}
}
