// Package config resolves cache backend connection settings from the
// process environment, once at startup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultRedisHost = "localhost"
	DefaultRedisPort = "6379"
	DefaultRedisDB   = "0"
	DefaultTTL       = 60 * time.Second
)

// Config holds the resolved connection settings. It is immutable after
// LoadFromEnv returns.
type Config struct {
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisDB       string `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	CacheTTLMS    int64  `mapstructure:"CACHE_TTL_MS"`

	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// LoadFromEnv reads the configuration from environment variables. A
// .env file in the working directory is loaded first when present, for
// local development.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_DB", "REDIS_PASSWORD",
		"CACHE_TTL_MS", "PORT", "LOG_LEVEL",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// ResolveRedisURL returns the Redis connection URL. A non-blank
// REDIS_URL wins verbatim; validating it is the backend's business.
// Otherwise the URL is composed from host, port and db, with the
// password percent-encoded per the URI userinfo rules.
func (c *Config) ResolveRedisURL() string {
	if u := strings.TrimSpace(c.RedisURL); u != "" {
		return u
	}

	host := c.RedisHost
	if host == "" {
		host = DefaultRedisHost
	}
	port := c.RedisPort
	if port == "" {
		port = DefaultRedisPort
	}
	db := c.RedisDB
	if db == "" {
		db = DefaultRedisDB
	}

	u := url.URL{
		Scheme: "redis",
		Host:   host + ":" + port,
		Path:   "/" + db,
	}
	if c.RedisPassword != "" {
		u.User = url.UserPassword("", c.RedisPassword)
	}
	return u.String()
}

// DefaultCacheTTL returns the cache default TTL: CACHE_TTL_MS when set
// to a positive value, DefaultTTL otherwise.
func (c *Config) DefaultCacheTTL() time.Duration {
	if c.CacheTTLMS > 0 {
		return time.Duration(c.CacheTTLMS) * time.Millisecond
	}
	return DefaultTTL
}
