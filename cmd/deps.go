// file: cmd/deps.go
// version: 1.0.0
// guid: 5b2f8e71-c94a-4d03-a6e8-1f7c3d9b2e54

package cmd

import (
	"sync/atomic"
	"time"

	"github.com/jdfalk/apicache/internal/cache"
	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/fetch"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/marketplace"
	"github.com/jdfalk/apicache/internal/metrics"
	"github.com/jdfalk/apicache/internal/server"
	"github.com/jdfalk/apicache/internal/server/middleware"
)

// deps is the object graph shared by the serve and fetch commands.
type deps struct {
	store   *cache.Store
	fetcher *fetch.Fetcher
	market  *marketplace.Client

	// maxAge holds the janitor sweep age in nanoseconds.
	maxAge atomic.Int64
}

func newDeps(cfg config.Config) *deps {
	store := cache.New(
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithObserver(metrics.CacheObserver{}),
	)
	f := fetch.New(store, nil, fetch.Config{
		BaseURL:    cfg.BaseURL,
		DefaultTTL: cfg.Cache.DefaultTTL,
		Timeout:    cfg.RequestTimeout,
		UserAgent:  cfg.UserAgent,
		Coalesce:   cfg.Cache.CoalesceInflight,
	})
	d := &deps{
		store:   store,
		fetcher: f,
		market:  marketplace.NewClient(f, ttlsFrom(cfg)),
	}
	d.maxAge.Store(int64(sweepAge(cfg)))
	return d
}

// apply pushes the settings that can change without a restart.
// The base URL and store bound are fixed for the life of the process.
func (d *deps) apply(cfg config.Config) {
	d.fetcher.SetDefaultTTL(cfg.Cache.DefaultTTL)
	d.fetcher.SetCoalesce(cfg.Cache.CoalesceInflight)
	d.market.SetTTLs(ttlsFrom(cfg))
	d.maxAge.Store(int64(sweepAge(cfg)))
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
}

func ttlsFrom(cfg config.Config) marketplace.TTLs {
	return marketplace.TTLs{
		Search: cfg.Cache.SearchTTL,
		Detail: cfg.Cache.DetailTTL,
		Usage:  cfg.Cache.UsageTTL,
	}
}

// sweepAge is the age past which no configured endpoint would accept an
// entry, so the janitor can drop it.
func sweepAge(cfg config.Config) time.Duration {
	longest := cfg.Cache.DefaultTTL
	for _, ttl := range []time.Duration{cfg.Cache.SearchTTL, cfg.Cache.DetailTTL, cfg.Cache.UsageTTL} {
		if ttl > longest {
			longest = ttl
		}
	}
	return longest
}

// sweepMaxAge is the janitor's current sweep age. It follows reloads.
func (d *deps) sweepMaxAge() time.Duration {
	return time.Duration(d.maxAge.Load())
}

func serverConfigFrom(cfg config.Config) server.ServerConfig {
	sc := server.GetDefaultServerConfig()
	if cfg.Server.Host != "" {
		sc.Host = cfg.Server.Host
	}
	if cfg.Server.Port != "" {
		sc.Port = cfg.Server.Port
	}
	if cfg.Server.ReadTimeout > 0 {
		sc.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		sc.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout > 0 {
		sc.IdleTimeout = cfg.Server.IdleTimeout
	}
	return sc
}

func adminCredentials(cfg config.Config) middleware.AdminCredentials {
	return middleware.AdminCredentials{
		Token:     cfg.Server.AdminToken,
		TokenHash: cfg.Server.AdminTokenHash,
	}
}
