package app

import (
	"context"
	"fmt"

	"github.com/samvad-hq/scoreboard/internal/cache"
	"github.com/samvad-hq/scoreboard/internal/config"
	"github.com/samvad-hq/scoreboard/internal/logger"
	"github.com/samvad-hq/scoreboard/pkg/httpclient"
	"github.com/samvad-hq/scoreboard/pkg/scores"
)

// App represents the scoreboard runtime. It owns the response cache, the
// transport client rooted at the configured base address, and the resource
// accessor built on top of it. One App lives for the whole process.
type App struct {
	cfg    *config.Config
	client *httpclient.RestyClient
	scores *scores.Accessor
	log    logger.Logger
	store  cache.Store
}

// New builds the runtime from config.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	store, err := cache.NewStore(cfg.CacheType, cache.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	log.InfoObj("cache initialized", "cache_config", map[string]any{
		"type":                     cfg.CacheType,
		"ttl_seconds":              int(cfg.CacheTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CacheCleanup.Seconds()),
	})

	client := httpclient.NewRestyClient(cfg.APIBaseURL, httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		Cache:     store,
		Logger:    log,
	})
	log.InfoObj("api client initialized", "api_config", map[string]any{
		"base_url":        cfg.APIBaseURL,
		"timeout_seconds": int(cfg.HTTPTimeout.Seconds()),
	})

	return &App{
		cfg:    cfg,
		client: client,
		scores: scores.New(client),
		log:    log,
		store:  store,
	}, nil
}

// Scores returns the resource accessor.
func (a *App) Scores() *scores.Accessor { return a.scores }

// Client returns the transport client.
func (a *App) Client() *httpclient.RestyClient { return a.client }

// Healthy runs the best-effort health probe against the service.
func (a *App) Healthy(ctx context.Context) bool {
	ok := a.client.Health(ctx)
	a.log.InfoObj("health probe", "health", map[string]any{
		"base_url": a.client.BaseURL(),
		"healthy":  ok,
	})
	return ok
}

// Close releases the cache, logging any errors encountered.
func (a *App) Close() {
	if a == nil || a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("cache close failed", "error", err)
	}
}
