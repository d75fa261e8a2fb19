// Package main is the productos CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/cli"
	"github.com/ludmilasolutions/productos/internal/config"
	"github.com/ludmilasolutions/productos/internal/metrics"
	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/scoring"
	"github.com/ludmilasolutions/productos/internal/search"
	"github.com/ludmilasolutions/productos/internal/server"
	"github.com/ludmilasolutions/productos/internal/source"
	"github.com/ludmilasolutions/productos/internal/storage"
	"github.com/ludmilasolutions/productos/internal/watcher"
	"github.com/ludmilasolutions/productos/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/productos/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "categories":
		runCategories()
	case "reload":
		runReload()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("productos version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Engine    *search.Engine
	Snapshots *storage.SnapshotStore
}

func (c *Components) Close() {
	if c.Snapshots != nil {
		_ = c.Snapshots.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var src source.Source
	var sourceName string
	if cfg.Catalog.SourcePath != "" {
		src = source.NewFileSource(cfg.Catalog.SourcePath)
		sourceName = cfg.Catalog.SourcePath
	} else if cfg.Catalog.SourceURL != "" {
		src = source.NewHTTPSource(cfg.Catalog.SourceURL, time.Duration(cfg.Catalog.FetchTimeoutSeconds)*time.Second)
		sourceName = cfg.Catalog.SourceURL
	} else {
		return nil, fmt.Errorf("no catalog source configured (set catalog.source_url or catalog.source_path)")
	}

	loader := catalog.NewLoader(
		catalog.WithBatchSize(cfg.Catalog.BatchSize),
		catalog.WithYieldEvery(cfg.Catalog.YieldEvery),
		catalog.WithLogger(logger),
	)
	scorer := scoring.NewScorer(&cfg.Scoring)

	engineOpts := []search.EngineOption{search.WithLogger(logger)}
	var snapshots *storage.SnapshotStore
	if cfg.Catalog.SnapshotPath != "" {
		store, err := storage.NewSnapshotStore(cfg.Catalog.SnapshotPath)
		if err != nil {
			logger.Warn("snapshot store unavailable, continuing without stale-copy fallback", zap.Error(err))
		} else {
			snapshots = store
			engineOpts = append(engineOpts, search.WithSnapshotStore(store, sourceName))
		}
	}

	engine := search.NewEngine(src, loader, scorer, &cfg.Search, engineOpts...)
	return &Components{Engine: engine, Snapshots: snapshots}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// First load. A failure is not fatal: the server starts empty (or on the
	// stale snapshot) and a later reload can recover.
	if err := components.Engine.Reload(context.Background()); err != nil {
		logger.Error("initial catalog load failed", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.Watch && cfg.Catalog.SourcePath != "" {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.New(cfg.Catalog.SourcePath, func() {
			if err := components.Engine.Reload(context.Background()); err != nil {
				logger.Warn("watch reload failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	m := metrics.New()
	if st := components.Engine.Status(); st.Loaded {
		m.CatalogItems.Set(float64(st.Items))
	}

	srv := server.NewServer(components.Engine, cfg, logger, m)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the catalog directly)")
	category := fs.String("category", "", "category filter (exact match)")
	sortMode := fs.String("sort", models.SortRelevance, "sort: relevance, price_asc, or price_desc")
	limit := fs.Int("limit", 20, "number of results")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: productos search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: productos search [flags] <query>")
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "compact":
		format = cli.OutputCompact
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text, compact, or json\n", *outputFormat)
		os.Exit(1)
	}

	query := &models.SearchQuery{
		Query:    queryStr,
		Category: *category,
		Sort:     *sortMode,
		Limit:    *limit,
	}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct mode: load the catalog in-process.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Engine.Reload(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Catalog load failed: %v\n", err)
		os.Exit(1)
	}
	response := components.Engine.Search(query)
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/categories")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Categories failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	for _, c := range out.Categories {
		fmt.Println(c)
	}
}

func runReload() {
	fs := flag.NewFlagSet("reload", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Post(*serverURL+"/api/v1/reload", "application/json", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Reload failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	fmt.Println(string(bytes.TrimSpace(b)))
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status search.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("loaded:       %t\n", status.Loaded)
		if status.Loaded {
			fmt.Printf("generation:   %s\n", status.Generation)
			fmt.Printf("loaded_at:    %s\n", status.LoadedAt.Format(time.RFC3339))
			fmt.Printf("items:        %d\n", status.Items)
			fmt.Printf("dropped:      %d\n", status.Dropped)
			fmt.Printf("terms:        %d\n", status.Terms)
			fmt.Printf("categories:   %d\n", status.Categories)
			fmt.Printf("cached:       %d   # cached query results\n", status.CachedKeys)
			if status.Stale {
				fmt.Println("stale:        true   # serving fallback snapshot")
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`productos - catalog search engine

Usage:
  productos server [flags]            Start the HTTP server
  productos search [flags] <query>    Search the catalog
  productos categories [flags]        List catalog categories
  productos reload [flags]            Reload the catalog from its source
  productos status [flags]            Show engine status
  productos version                   Show version
  productos help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/productos/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to load the catalog in-process.
  --category string  Exact category filter
  --sort string      relevance (default), price_asc, or price_desc
  --limit int        Number of results (default: 20)
  --output string    text, compact, or json

Examples:
  productos server
  productos search martillo
  productos search --category HERRAMIENTAS --sort price_asc martillo
  productos search --output json "tornillo 3x25"
  productos categories
  productos reload
  productos status --output json`)
}
