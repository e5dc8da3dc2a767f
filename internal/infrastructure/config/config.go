package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret must be replaced in release mode
const DefaultSessionSecret = "change-me-in-production"

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Editor    EditorConfig    `mapstructure:"editor"`
	Cover     CoverConfig     `mapstructure:"cover"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	MQ        MQConfig        `mapstructure:"mq"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP and gRPC listeners
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	GRPCPort     int           `mapstructure:"grpc_port"` // 0 disables the health server

	// TrustedProxies may set X-Forwarded-For; empty trusts none
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig relational store
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | postgres | sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"` // sqlite file, or ":memory:"
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the driver-specific connection string
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	case "sqlite":
		return d.Path
	default:
		loc := url.QueryEscape(d.Loc)
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
	}
}

// RedisConfig session and cache store
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig editor sessions
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

// EditorConfig seeds the editor record at startup when both are set
// and no editor exists yet
type EditorConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CoverConfig Open Library lookups
type CoverConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// CacheConfig view cache
type CacheConfig struct {
	ViewTTL time.Duration `mapstructure:"view_ttl"` // 0 disables caching
}

// RateLimitConfig sign-in throttling per client IP
type RateLimitConfig struct {
	SignInPerMinute int `mapstructure:"sign_in_per_minute"`
	Burst           int `mapstructure:"burst"`
}

// TracingConfig OTLP export; empty endpoint disables tracing
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// MQConfig library events; empty url disables publishing
type MQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// LogConfig zap logger
type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// Load reads configuration.
// Lookup order: explicit path, then config/config[.<BOOKNOTES_ENV>].yaml.
// BOOKNOTES_* environment variables override file values, e.g.
// BOOKNOTES_DATABASE_DRIVER=sqlite.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		name := "config"
		if env := os.Getenv("BOOKNOTES_ENV"); env != "" {
			name = "config." + env
		}
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("BOOKNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.grpc_port", 0)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "booknotes")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "booknotes.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "booknotes_session")
	v.SetDefault("session.secure", false)

	v.SetDefault("editor.username", "")
	v.SetDefault("editor.password", "")

	v.SetDefault("cover.base_url", "https://covers.openlibrary.org")
	v.SetDefault("cover.timeout", 3*time.Second)
	v.SetDefault("cover.breaker_failures", 5)
	v.SetDefault("cover.breaker_timeout", 30*time.Second)

	v.SetDefault("cache.view_ttl", time.Minute)

	v.SetDefault("ratelimit.sign_in_per_minute", 5)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "booknotes")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("mq.url", "")
	v.SetDefault("mq.exchange", "booknotes.events")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.enable_caller", false)
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Server.GRPCPort < 0 || cfg.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", cfg.Server.GRPCPort)
	}
	for _, p := range cfg.Server.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid trusted proxy: %q", p)
			}
		}
	}

	switch cfg.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver: %q", cfg.Database.Driver)
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if cfg.Session.Secret == DefaultSessionSecret && cfg.Server.Mode == "release" {
		return fmt.Errorf("session secret must be changed in release mode")
	}
	if cfg.Server.Mode == "release" && weakEditorSeed(cfg.Editor) {
		return fmt.Errorf("editor seed password must not be a default in release mode")
	}

	if cfg.RateLimit.SignInPerMinute <= 0 || cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("ratelimit values must be positive")
	}
	return nil
}

// weakEditorSeed reports a configured seed password anyone could guess
func weakEditorSeed(e EditorConfig) bool {
	if e.Password == "" {
		return false
	}
	p := strings.ToLower(e.Password)
	return p == "admin" || p == "password" || strings.EqualFold(e.Password, strings.TrimSpace(e.Username))
}
