// file: internal/config/watch.go
// version: 1.0.0
// guid: 2f6b8d14-c3a9-4e7d-81f5-0a9e6c4b7d23

package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/apicache/internal/logging"
)

var (
	listenersMu sync.Mutex
	listeners   []func(old, updated Config)
)

// OnChange registers fn to run after the config file changes and AppConfig
// has been reloaded.
func OnChange(fn func(old, updated Config)) {
	listenersMu.Lock()
	listeners = append(listeners, fn)
	listenersMu.Unlock()
}

// Reload rebuilds AppConfig from viper and notifies listeners
func Reload() {
	old := AppConfig
	AppConfig = Load()

	listenersMu.Lock()
	fns := append([]func(old, updated Config){}, listeners...)
	listenersMu.Unlock()

	for _, fn := range fns {
		fn(old, AppConfig)
	}
}

// handleConfigEvent is the viper OnConfigChange callback
func handleConfigEvent(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	logging.Infof("Config file changed: %s", e.Name)
	Reload()
}

// Watch starts watching the active config file. It does nothing when no
// config file was loaded.
func Watch() bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(handleConfigEvent)
	viper.WatchConfig()
	return true
}

// Dump renders cfg as YAML
func Dump(cfg Config) (string, error) {
	out, err := yaml.Marshal(dumpable(cfg))
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}

// dumpable converts durations to strings so the YAML reads like the config file
func dumpable(cfg Config) map[string]any {
	return map[string]any{
		"base_url":        cfg.BaseURL,
		"request_timeout": cfg.RequestTimeout.String(),
		"user_agent":      cfg.UserAgent,
		"log_level":       cfg.LogLevel,
		"cache": map[string]any{
			"default_ttl":       cfg.Cache.DefaultTTL.String(),
			"search_ttl":        cfg.Cache.SearchTTL.String(),
			"detail_ttl":        cfg.Cache.DetailTTL.String(),
			"usage_ttl":         cfg.Cache.UsageTTL.String(),
			"max_entries":       cfg.Cache.MaxEntries,
			"coalesce_inflight": cfg.Cache.CoalesceInflight,
			"sweep_interval":    cfg.Cache.SweepInterval.String(),
		},
		"server": map[string]any{
			"host":             cfg.Server.Host,
			"port":             cfg.Server.Port,
			"read_timeout":     cfg.Server.ReadTimeout.String(),
			"write_timeout":    cfg.Server.WriteTimeout.String(),
			"idle_timeout":     cfg.Server.IdleTimeout.String(),
			"max_body_bytes":   cfg.Server.MaxBodyBytes,
			"admin_token":      maskSecret(cfg.Server.AdminToken),
			"admin_token_hash": cfg.Server.AdminTokenHash,
		},
		"rate_limit": map[string]any{
			"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
			"burst":               cfg.RateLimit.Burst,
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
