// file: cmd/serve.go
// version: 1.0.0
// guid: a8d41c6e-73f2-4b95-8e1d-c0b6f2a9e347

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the caching daemon",
	Long: `Start an HTTP server that proxies the marketplace API through a shared
cache. Cache statistics, invalidation and Prometheus metrics are exposed
alongside the proxied routes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		d := newDeps(cfg)
		server.Version = Version

		srv := server.NewServer(server.Options{
			Fetcher:           d.fetcher,
			Marketplace:       d.market,
			Admin:             adminCredentials(cfg),
			MaxBodyBytes:      cfg.Server.MaxBodyBytes,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		})

		config.OnChange(func(old, updated config.Config) {
			d.apply(updated)
			srv.SetAdminCredentials(adminCredentials(updated))
			if old.BaseURL != updated.BaseURL || old.Cache.MaxEntries != updated.Cache.MaxEntries {
				logging.Warnf("base_url and cache.max_entries changes take effect after a restart")
			}
			logging.Infof("Applied config: default_ttl=%s coalesce=%t log_level=%s",
				updated.Cache.DefaultTTL, updated.Cache.CoalesceInflight, updated.LogLevel)
		})
		if config.Watch() {
			logging.Infof("Watching %s for changes", viper.ConfigFileUsed())
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if cfg.Cache.SweepInterval > 0 {
			d.store.StartJanitor(ctx, cfg.Cache.SweepInterval, d.sweepMaxAge)
			logging.Infof("Cache janitor running every %s", cfg.Cache.SweepInterval)
		}

		return srv.Start(serverConfigFrom(cfg))
	},
}

func init() {
	serveCmd.Flags().String("port", "", "port to run the server on (default 8080)")
	serveCmd.Flags().String("host", "", "host to bind the server to (default localhost)")
	serveCmd.Flags().Duration("read-timeout", 0, "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("write-timeout", 0, "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("idle-timeout", 0, "idle timeout (e.g. 60s, 2m)")
	serveCmd.Flags().Bool("coalesce", false, "share one upstream request between concurrent misses")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.read_timeout", serveCmd.Flags().Lookup("read-timeout"))
	_ = viper.BindPFlag("server.write_timeout", serveCmd.Flags().Lookup("write-timeout"))
	_ = viper.BindPFlag("server.idle_timeout", serveCmd.Flags().Lookup("idle-timeout"))
	_ = viper.BindPFlag("cache.coalesce_inflight", serveCmd.Flags().Lookup("coalesce"))
}
