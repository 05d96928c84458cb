package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	CORS         CORSConfig      `mapstructure:"cors"`
	LoginLimit   RateLimitConfig `mapstructure:"login_limit"`
}

// RateLimitConfig attempts allowed per client IP within Window. Needs Redis.
type RateLimitConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Window   time.Duration `mapstructure:"window"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig storage settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"` // sqlite only
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig optional Redis used for the token blacklist and worker locks
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TrackingConfig production tracking rules
type TrackingConfig struct {
	Timezone              string        `mapstructure:"timezone"`
	DefaultAvailableHours float64       `mapstructure:"default_available_hours"`
	LockTimeout           time.Duration `mapstructure:"lock_timeout"`
	MaxSyncBatch          int           `mapstructure:"max_sync_batch"`
}

// Location resolves the tracking timezone used to decide calendar days.
func (t *TrackingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from file and environment.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.login_limit.attempts", 10)
	v.SetDefault("server.login_limit.window", "5m")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.path", "./data/oee.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "weld_oee")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracking.timezone", "America/Sao_Paulo")
	v.SetDefault("tracking.default_available_hours", 8)
	v.SetDefault("tracking.lock_timeout", "5s")
	v.SetDefault("tracking.max_sync_batch", 500)

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("OEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid config: db.driver %q is not supported", c.Database.Driver)
	}
	if c.Tracking.DefaultAvailableHours <= 0 {
		return fmt.Errorf("invalid config: tracking.default_available_hours must be positive")
	}
	if _, err := time.LoadLocation(c.Tracking.Timezone); err != nil {
		return fmt.Errorf("invalid config: tracking.timezone: %w", err)
	}
	if c.Tracking.MaxSyncBatch <= 0 {
		return fmt.Errorf("invalid config: tracking.max_sync_batch must be positive")
	}
	return nil
}
