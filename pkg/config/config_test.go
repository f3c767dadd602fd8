package config

import (
	"testing"
	"time"
)

func TestResolveRedisURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "all defaults",
			cfg:  Config{},
			want: "redis://localhost:6379/0",
		},
		{
			name: "blank REDIS_URL falls back to composition",
			cfg:  Config{RedisURL: "  "},
			want: "redis://localhost:6379/0",
		},
		{
			name: "explicit REDIS_URL wins verbatim",
			cfg: Config{
				RedisURL:  "redis://cache.internal:6380/2",
				RedisHost: "ignored",
			},
			want: "redis://cache.internal:6380/2",
		},
		{
			name: "composed from host, port and db",
			cfg:  Config{RedisHost: "cache.internal", RedisPort: "6380", RedisDB: "3"},
			want: "redis://cache.internal:6380/3",
		},
		{
			name: "password is percent-encoded",
			cfg:  Config{RedisPassword: "p@ssw/rd"},
			want: "redis://:p%40ssw%2Frd@localhost:6379/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.ResolveRedisURL()
			if got != tt.want {
				t.Errorf("ResolveRedisURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultCacheTTL(t *testing.T) {
	cfg := Config{}
	if got := cfg.DefaultCacheTTL(); got != 60*time.Second {
		t.Errorf("DefaultCacheTTL() = %v, want 60s", got)
	}

	cfg = Config{CacheTTLMS: 1500}
	if got := cfg.DefaultCacheTTL(); got != 1500*time.Millisecond {
		t.Errorf("DefaultCacheTTL() = %v, want 1.5s", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.test")
	t.Setenv("REDIS_PORT", "6390")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("CACHE_TTL_MS", "2000")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if got := cfg.ResolveRedisURL(); got != "redis://:secret@cache.test:6390/0" {
		t.Errorf("ResolveRedisURL() = %q", got)
	}
	if got := cfg.DefaultCacheTTL(); got != 2*time.Second {
		t.Errorf("DefaultCacheTTL() = %v, want 2s", got)
	}
}
