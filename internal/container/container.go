package container

import (
	"fmt"
	"net/http"

	"go-image-compress/internal/config"
	"go-image-compress/internal/engine"
	"go-image-compress/internal/logger"
	"go-image-compress/internal/proxy"
	"go-image-compress/internal/service"
	"go-image-compress/internal/source"
	"go-image-compress/internal/storage"
	"go-image-compress/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config         *config.Config
	engineProvider engine.Provider
	httpFetcher    storage.ByteFetcher
	azureFetcher   storage.ByteFetcher
	resolver       *source.Resolver
	compressor     service.CompressionService
	replayClient   *proxy.ReplayClient
	handler        http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Build dependency graph
	engineProvider := engine.NewProvider(cfg.ImageEngine)
	httpFetcher := storage.NewHTTPByteFetcher(cfg.MaxSourceBytes, cfg.SourceFetchTimeout)

	var azureFetcher storage.ByteFetcher
	if cfg.AzureAccountName != "" && cfg.AzureAccountKey != "" {
		fetcher, err := storage.NewAzureByteFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Azure fetcher: %w", err)
		}
		azureFetcher = fetcher
		logger.WithField("account", cfg.AzureAccountName).Info("Azure blob source enabled")
	}

	resolver := source.NewResolver(httpFetcher, azureFetcher)
	compressor := service.NewCompressionService(engineProvider, resolver)
	replayClient := proxy.NewReplayClient(cfg.ProxyTimeout)
	handler := transport.NewHandler(compressor, replayClient, cfg)

	return &Container{
		config:         cfg,
		engineProvider: engineProvider,
		httpFetcher:    httpFetcher,
		azureFetcher:   azureFetcher,
		resolver:       resolver,
		compressor:     compressor,
		replayClient:   replayClient,
		handler:        handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Shutdown releases resources held by resolved dependencies
func (c *Container) Shutdown() {
	c.engineProvider.Shutdown()
}
