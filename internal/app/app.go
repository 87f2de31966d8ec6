// Package app wires configuration, storage, clients and services
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/strata/internal/clients/yahoo"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/services/analysis"
	"github.com/bobmcallan/strata/internal/storage/pricecache"
)

// App holds all initialized services and clients. It is the shared core
// behind cmd/strata-server.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	PriceCache      interfaces.PriceCache
	PriceClient     interfaces.PriceClient
	AnalysisService interfaces.AnalysisService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, the price cache, the market
// data client and the analysis service. configPath may be empty, in which
// case STRATA_CONFIG and then strata.toml next to the binary are tried.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("STRATA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "strata.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/strata.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	cache, err := pricecache.New(config.Storage.Path, config.Storage.GetTTL(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize price cache: %w", err)
	}

	clientOpts := []yahoo.ClientOption{
		yahoo.WithLogger(logger),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	}
	if config.Clients.Yahoo.BaseURL != "" {
		clientOpts = append(clientOpts, yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL))
	}
	if config.Clients.Yahoo.RateLimit > 0 {
		clientOpts = append(clientOpts, yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit))
	}
	client := yahoo.NewClient(clientOpts...)

	svc := analysis.NewService(client, cache, config, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		PriceCache:      cache,
		PriceClient:     client,
		AnalysisService: svc,
		StartupTime:     time.Now(),
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.PriceCache != nil {
		return a.PriceCache.Close()
	}
	return nil
}
