// internal/bootstrap/runtime.go
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sponsor-insights/internal/common/config"
	"sponsor-insights/internal/common/database"
	commonerrors "sponsor-insights/internal/common/errors"
	commonhttp "sponsor-insights/internal/common/http"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/engine"
	"sponsor-insights/internal/sources"
	"sponsor-insights/internal/store"
)

const connectTimeout = 5 * time.Second

// Runtime holds the shared pieces both binaries build from configuration.
// Store connections are opened on first use.
type Runtime struct {
	Store   *store.Store
	Sources *sources.Provider
	Agent   *delegate.Client
	Engine  *engine.Engine

	mu      sync.Mutex
	closers []func() error
	logger  logger.Logger
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	rt := &Runtime{logger: log.WithFields(map[string]interface{}{"component": "bootstrap"})}

	backend, err := rt.backend(cfg)
	if err != nil {
		return nil, err
	}
	rt.Store = store.New(backend, log, store.WithTimeout(config.GetDuration(cfg.Store.Timeout)))

	opts := []engine.Option{
		engine.WithLimits(engine.Limits{
			HighWage: cfg.Store.HighWageLimit,
			Sample:   cfg.Store.SampleOversample,
			Profile:  cfg.Store.ProfileLimit,
		}),
	}

	if cfg.Sources.Enabled {
		fetcher := commonhttp.NewClient(
			config.GetDuration(cfg.Sources.Timeout),
			commonhttp.WithRateLimit(cfg.Sources.RatePerSecond, cfg.Sources.Burst),
			commonhttp.WithUserAgent(cfg.Sources.UserAgent),
		)
		rt.Sources = sources.NewProvider(fetcher, log, sources.WithCache(rt.sourcesCache(ctx, cfg)))
		opts = append(opts, engine.WithSources(rt.Sources))
	}

	if g := cfg.APIs.GenAI; g.Enabled && g.BaseURL != "" {
		rt.Agent = delegate.NewClient(delegate.Config{
			BaseURL:      g.BaseURL,
			APIKey:       g.APIKey,
			Timeout:      config.GetDuration(g.Timeout),
			MaxToolCalls: g.MaxToolCalls,
			MaxRetries:   g.MaxRetries,
		}, log, delegate.WithHTTPClient(commonhttp.NewClient(
			0, // the delegate bounds each run with its own context timeout
			commonhttp.WithRateLimit(g.RatePerSecond, g.Burst),
			commonhttp.WithUserAgent(g.UserAgent),
		)))
		opts = append(opts, engine.WithAgent(rt.Agent))
	}

	rt.Engine = engine.New(rt.Store, log, opts...)
	rt.logger.Info("runtime ready", map[string]interface{}{
		"backend": cfg.Store.Backend,
		"sources": cfg.Sources.Enabled,
		"agent":   rt.Agent != nil,
	})
	return rt, nil
}

func (r *Runtime) backend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		return store.NewLazyBackend(cfg.Store.Backend, func() (store.Backend, error) {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return nil, commonerrors.NewDatabaseConnectionFailedError(fmt.Errorf("postgres: %w", err))
			}
			r.onClose(pg.Close)
			return store.NewPostgresBackend(pg.GetDB()), nil
		}), nil
	case config.StoreBackendElasticsearch:
		es := cfg.Database.Elasticsearch
		return store.NewLazyBackend(cfg.Store.Backend, func() (store.Backend, error) {
			client, err := database.NewElasticsearch(es)
			if err != nil {
				return nil, err
			}
			if err := client.Ping(context.Background()); err != nil {
				return nil, commonerrors.NewElasticsearchConnectionFailedError(err)
			}
			return store.NewElasticsearchBackend(client.Client, es.LCAIndex, es.PERMIndex), nil
		}), nil
	}
	return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}

// sourcesCache prefers Redis when configured and reachable, else an in-process cache.
func (r *Runtime) sourcesCache(ctx context.Context, cfg *config.Config) sources.Cache {
	ttl := time.Duration(cfg.Sources.CacheTTL) * time.Second
	if cfg.Sources.UseRedisCache {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			err = rc.Ping(pingCtx)
			cancel()
			if err == nil {
				r.onClose(rc.Close)
				return sources.NewRedisCache(rc.GetClient(), ttl)
			}
			_ = rc.Close()
		}
		r.logger.Warn("redis source cache unavailable, using memory cache", map[string]interface{}{
			"error": err,
		})
	}
	return sources.NewMemoryCache(cfg.Sources.CacheSize, ttl)
}

func (r *Runtime) onClose(fn func() error) {
	r.mu.Lock()
	r.closers = append(r.closers, fn)
	r.mu.Unlock()
}

// Close releases every connection opened so far, newest first.
func (r *Runtime) Close() {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			r.logger.Warn("close failed", map[string]interface{}{"error": err})
		}
	}
}
