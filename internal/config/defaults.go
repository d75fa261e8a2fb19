package config

import "github.com/ludmilasolutions/productos/internal/models"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.SnapshotPath == "" {
		cfg.Catalog.SnapshotPath = "/usr/local/var/productos/data/catalog.db"
	}
	if cfg.Catalog.BatchSize == 0 {
		cfg.Catalog.BatchSize = 1000
	}
	if cfg.Catalog.YieldEvery == 0 {
		cfg.Catalog.YieldEvery = 1
	}
	if cfg.Catalog.FetchTimeoutSeconds == 0 {
		cfg.Catalog.FetchTimeoutSeconds = 30
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 200
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 50
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 20
	}
	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = 300
	}
	if cfg.Search.DefaultSort == "" || !models.IsValidSort(cfg.Search.DefaultSort) {
		cfg.Search.DefaultSort = models.SortRelevance
	}
	cfg.Scoring.ApplyDefaults()
}
