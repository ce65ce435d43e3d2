package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. RECRUITMENT_DATABASE_DRIVER.
const EnvPrefix = "RECRUITMENT"

// Config represents the runtime configuration for the recruitment backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Email       EmailConfig       `mapstructure:"email"`
	Tasks       TasksConfig       `mapstructure:"tasks"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles the public submission endpoints per client IP.
// Zero requests disables the limiter.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxAge         time.Duration `mapstructure:"max_age"`
}

// DatabaseConfig describes the system of record.
type DatabaseConfig struct {
	Driver   string        `mapstructure:"driver"`
	Path     string        `mapstructure:"path"`
	DSN      string        `mapstructure:"dsn"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Name     string        `mapstructure:"name"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Pool     DBPoolConfig  `mapstructure:"pool"`
	Retry    DBRetryConfig `mapstructure:"retry"`
}

// DBPoolConfig sizes the connection pool.
type DBPoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DBRetryConfig bounds connection attempts at start-up.
type DBRetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is redis, memory or database. Redis falls back to memory when unreachable.
	Backend string            `mapstructure:"backend"`
	Redis   RedisCacheConfig  `mapstructure:"redis"`
	Memory  MemoryCacheConfig `mapstructure:"memory"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TLS      bool          `mapstructure:"tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Prefix   string        `mapstructure:"prefix"`
}

// MemoryCacheConfig tunes the in-process backend.
type MemoryCacheConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AuthConfig captures authentication settings.
type AuthConfig struct {
	JWT     JWTSettings     `mapstructure:"jwt"`
	Session SessionSettings `mapstructure:"session"`
	Admin   AdminSettings   `mapstructure:"admin"`
}

// JWTSettings configures admin bearer tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// SessionSettings configures cache-resident sessions.
type SessionSettings struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// AdminSettings describes the bootstrap admin account created on first start.
type AdminSettings struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// EmailConfig captures outbound email settings.
type EmailConfig struct {
	SMTP          SMTPConfig `mapstructure:"smtp"`
	RatePerMinute int        `mapstructure:"rate_per_minute"`
	AdminAddress  string     `mapstructure:"admin_address"`
}

// SMTPConfig defines SMTP dialer settings for sending email.
type SMTPConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TasksConfig sizes the background task dispatcher.
type TasksConfig struct {
	Workers         int           `mapstructure:"workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	ResultTTL       time.Duration `mapstructure:"result_ttl"`
	EmailRetries    int           `mapstructure:"email_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
}

// MaintenanceConfig holds cron specs for periodic jobs; an empty spec disables the job.
type MaintenanceConfig struct {
	DailyReport  string `mapstructure:"daily_report"`
	SessionPrune string `mapstructure:"session_prune"`
	CachePurge   string `mapstructure:"cache_purge"`
}

// MonitoringConfig enables metrics and health endpoints.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig toggles the metrics endpoint.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default .env) into
// the process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// LoadConfig reads config.yaml from ./config or the given directories, then
// applies RECRUITMENT_* environment overrides on top of the defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.cors.max_age", "12h")
	v.SetDefault("server.rate_limit.requests", 20)
	v.SetDefault("server.rate_limit.window", "1m")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/recruitment.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.pool.max_open_conns", 15)
	v.SetDefault("database.pool.max_idle_conns", 5)
	v.SetDefault("database.pool.conn_max_lifetime", "30m")
	v.SetDefault("database.retry.attempts", 3)
	v.SetDefault("database.retry.delay", "1s")

	v.SetDefault("cache.backend", "redis")
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.tls", false)
	v.SetDefault("cache.redis.timeout", "5s")
	v.SetDefault("cache.redis.prefix", "")
	v.SetDefault("cache.memory.cleanup_interval", "1m")

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "recruitment")
	v.SetDefault("auth.jwt.access_token_ttl", "8h")
	v.SetDefault("auth.session.ttl", "24h")
	v.SetDefault("auth.admin.name", "Portal Admin")
	v.SetDefault("auth.admin.email", "")
	v.SetDefault("auth.admin.password", "")

	v.SetDefault("email.smtp.enabled", false)
	v.SetDefault("email.smtp.host", "smtp.gmail.com")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.from", "")
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.timeout", "10s")
	v.SetDefault("email.rate_per_minute", 30)
	v.SetDefault("email.admin_address", "")

	v.SetDefault("tasks.workers", 4)
	v.SetDefault("tasks.queue_size", 100)
	v.SetDefault("tasks.result_ttl", "1h")
	v.SetDefault("tasks.email_retries", 3)
	v.SetDefault("tasks.retry_delay", "60s")
	v.SetDefault("tasks.processing_delay", "2s")

	v.SetDefault("maintenance.daily_report", "0 1 * * *")
	v.SetDefault("maintenance.session_prune", "@hourly")
	v.SetDefault("maintenance.cache_purge", "*/15 * * * *")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
