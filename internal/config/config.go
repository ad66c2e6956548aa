// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. APICACHE_BASE_URL.
const EnvPrefix = "APICACHE"

// Config holds application configuration
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
	LogLevel       string

	Cache     CacheConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// CacheConfig controls freshness windows and store bounds.
type CacheConfig struct {
	DefaultTTL       time.Duration
	SearchTTL        time.Duration
	DetailTTL        time.Duration
	UsageTTL         time.Duration
	MaxEntries       int
	CoalesceInflight bool
	SweepInterval    time.Duration
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64

	// AdminTokenHash (bcrypt) takes precedence over AdminToken.
	AdminToken     string
	AdminTokenHash string
}

// RateLimitConfig bounds per-client request rates on the daemon.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

var AppConfig Config

// SetDefaults registers default values with viper
func SetDefaults() {
	viper.SetDefault("base_url", "http://localhost:8000")
	viper.SetDefault("request_timeout", 30*time.Second)
	viper.SetDefault("user_agent", "apicache/1.0")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("cache.default_ttl", 5*time.Minute)
	viper.SetDefault("cache.search_ttl", 2*time.Minute)
	viper.SetDefault("cache.detail_ttl", 10*time.Minute)
	viper.SetDefault("cache.usage_ttl", time.Minute)
	viper.SetDefault("cache.max_entries", 0)
	viper.SetDefault("cache.coalesce_inflight", false)
	viper.SetDefault("cache.sweep_interval", 0)

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.max_body_bytes", int64(10<<20))
	viper.SetDefault("server.admin_token", "")
	viper.SetDefault("server.admin_token_hash", "")

	viper.SetDefault("rate_limit.requests_per_minute", 600)
	viper.SetDefault("rate_limit.burst", 60)
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	AppConfig = Load()
}

// Load builds a Config from the current viper state
func Load() Config {
	cfg := Config{
		BaseURL:        strings.TrimRight(strings.TrimSpace(viper.GetString("base_url")), "/"),
		RequestTimeout: viper.GetDuration("request_timeout"),
		UserAgent:      viper.GetString("user_agent"),
		LogLevel:       strings.ToLower(viper.GetString("log_level")),
		Cache: CacheConfig{
			DefaultTTL:       viper.GetDuration("cache.default_ttl"),
			SearchTTL:        viper.GetDuration("cache.search_ttl"),
			DetailTTL:        viper.GetDuration("cache.detail_ttl"),
			UsageTTL:         viper.GetDuration("cache.usage_ttl"),
			MaxEntries:       viper.GetInt("cache.max_entries"),
			CoalesceInflight: viper.GetBool("cache.coalesce_inflight"),
			SweepInterval:    viper.GetDuration("cache.sweep_interval"),
		},
		Server: ServerConfig{
			Host:         viper.GetString("server.host"),
			Port:         viper.GetString("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			IdleTimeout:  viper.GetDuration("server.idle_timeout"),
			MaxBodyBytes: viper.GetInt64("server.max_body_bytes"),

			AdminToken:     viper.GetString("server.admin_token"),
			AdminTokenHash: viper.GetString("server.admin_token_hash"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("rate_limit.requests_per_minute"),
			Burst:             viper.GetInt("rate_limit.burst"),
		},
	}

	// Negative values from a hand-edited file mean "use the default"
	if cfg.Cache.DefaultTTL <= 0 {
		cfg.Cache.DefaultTTL = 5 * time.Minute
	}
	if cfg.Cache.MaxEntries < 0 {
		cfg.Cache.MaxEntries = 0
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}
