package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Stream StreamConfig `mapstructure:"stream"`

	StockX StockXConfig `mapstructure:"stockx"`
	Alias  AliasConfig  `mapstructure:"alias"`
	Ingest IngestConfig `mapstructure:"ingest"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MarketSync  string `mapstructure:"market_sync"`
	ViewRefresh string `mapstructure:"view_refresh"`
	Valuation   string `mapstructure:"valuation"`
	HealthSweep string `mapstructure:"health_sweep"`
}

type AuthConfig struct {
	// APIToken guards /api/*; empty disables bearer auth (dev only).
	APIToken string `mapstructure:"api_token"`
	// CronSecret is the shared secret for the /cron/* triggers.
	CronSecret string `mapstructure:"cron_secret"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // "memory" or "redis"
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisPass string        `mapstructure:"redis_pass"`
	RedisDB   int           `mapstructure:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type StreamConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	BufferSize int  `mapstructure:"buffer_size"`
}

type StockXConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	APIKey   string        `mapstructure:"api_key"`
	JWT      string        `mapstructure:"jwt"`
	Currency string        `mapstructure:"currency"`
	Region   string        `mapstructure:"region"`
}

type AliasConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
	Region  string        `mapstructure:"region"`
}

type IngestConfig struct {
	// SleepBetweenStyles is the fixed delay between sequential style fetches.
	SleepBetweenStyles time.Duration `mapstructure:"sleep_between_styles"`
	MaxStylesPerRun    int           `mapstructure:"max_styles_per_run"`
	StaleAfter         time.Duration `mapstructure:"stale_after"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.market_sync", "@every 30m")
	v.SetDefault("cron.view_refresh", "@every 10m")
	v.SetDefault("cron.valuation", "@daily")
	v.SetDefault("cron.health_sweep", "@every 5m")
	v.SetDefault("auth.api_token", "")
	v.SetDefault("auth.cron_secret", "")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "2m")
	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.buffer_size", 64)
	v.SetDefault("stockx.base_url", "https://api.stockx.com/v2")
	v.SetDefault("stockx.timeout", "15s")
	v.SetDefault("stockx.currency", "GBP")
	v.SetDefault("stockx.region", "UK")
	v.SetDefault("alias.base_url", "https://sell-api.goat.com/api/v1")
	v.SetDefault("alias.timeout", "15s")
	v.SetDefault("alias.region", "US")
	v.SetDefault("ingest.sleep_between_styles", "2s")
	v.SetDefault("ingest.max_styles_per_run", 50)
	v.SetDefault("ingest.stale_after", "2h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
