// file: cmd/deps_test.go
// version: 1.0.0
// guid: 2d8a6f93-4e1b-47c0-b5a9-f3c7e0d8a126

package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		BaseURL:        "http://backend.test/",
		RequestTimeout: 5 * time.Second,
		LogLevel:       "info",
		Cache: config.CacheConfig{
			DefaultTTL: 5 * time.Minute,
			SearchTTL:  2 * time.Minute,
			DetailTTL:  10 * time.Minute,
			UsageTTL:   time.Minute,
		},
	}
}

func TestNewDeps(t *testing.T) {
	d := newDeps(testConfig())

	assert.Equal(t, "http://backend.test", d.fetcher.BaseURL())
	assert.Equal(t, 5*time.Minute, d.fetcher.DefaultTTL())
	assert.Equal(t, 2*time.Minute, d.market.TTLs().Search)
	assert.Zero(t, d.store.Len())
}

func TestDepsApply(t *testing.T) {
	defer logging.SetLevel(logging.CurrentLevel())

	d := newDeps(testConfig())
	updated := testConfig()
	updated.Cache.DefaultTTL = 30 * time.Second
	updated.Cache.SearchTTL = 15 * time.Second
	updated.LogLevel = "debug"

	d.apply(updated)

	assert.Equal(t, 30*time.Second, d.fetcher.DefaultTTL())
	assert.Equal(t, 15*time.Second, d.market.TTLs().Search)
	assert.Equal(t, logging.DebugLevel, logging.CurrentLevel())
}

func TestSweepAge(t *testing.T) {
	assert.Equal(t, 10*time.Minute, sweepAge(testConfig()))

	cfg := testConfig()
	cfg.Cache.DefaultTTL = time.Hour
	assert.Equal(t, time.Hour, sweepAge(cfg))
}

func TestDepsApplyUpdatesSweepAge(t *testing.T) {
	defer logging.SetLevel(logging.CurrentLevel())

	d := newDeps(testConfig())
	require.Equal(t, 10*time.Minute, d.sweepMaxAge())

	updated := testConfig()
	updated.Cache.DetailTTL = 2 * time.Hour
	d.apply(updated)
	assert.Equal(t, 2*time.Hour, d.sweepMaxAge())

	// shrinking every TTL shrinks the janitor horizon too
	updated = testConfig()
	updated.Cache.DefaultTTL = 30 * time.Second
	updated.Cache.SearchTTL = 10 * time.Second
	updated.Cache.DetailTTL = 20 * time.Second
	updated.Cache.UsageTTL = 5 * time.Second
	d.apply(updated)
	assert.Equal(t, 30*time.Second, d.sweepMaxAge())
}

func TestJanitorFollowsReloadedSweepAge(t *testing.T) {
	defer logging.SetLevel(logging.CurrentLevel())

	d := newDeps(testConfig())
	d.store.Set("k", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := d.store.StartJanitor(ctx, 5*time.Millisecond, d.sweepMaxAge)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, d.store.Len())

	updated := testConfig()
	updated.Cache.DefaultTTL = 0
	updated.Cache.SearchTTL = 0
	updated.Cache.DetailTTL = 0
	updated.Cache.UsageTTL = 0
	d.apply(updated)

	assert.Eventually(t, func() bool { return d.store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestServerConfigFrom(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = "9090"

	sc := serverConfigFrom(cfg)
	assert.Equal(t, "9090", sc.Port)
	assert.Equal(t, "localhost", sc.Host)
	assert.Equal(t, 15*time.Second, sc.ReadTimeout)
}
