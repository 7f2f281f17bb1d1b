package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source/yts"
	"github.com/mmcdole/reel/internal/domain"
)

// NewClient creates the catalog repository for the configured provider
func NewClient(cfg *adapter.APIConfig, logger *slog.Logger) (domain.CatalogRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("api config is nil")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}

	if cfg.Key == "" {
		return nil, fmt.Errorf("provider API key is required (set api.key or REEL_API_KEY)")
	}

	return yts.NewClient(yts.Config{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.Key,
		Host:              cfg.Host,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}, logger), nil
}

// NewClientFromConfig creates the catalog repository from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogRepository, error) {
	return NewClient(&cfg.API, logger)
}
