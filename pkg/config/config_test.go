package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL())
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, StoreMemory)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Server.Listen = %q, want :8080", cfg.Server.Listen)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
ttl = "1h"

[redis]
addr = "redis.internal:6379"
db = 2

[store]
backend = "mongo"
mongo_uri = "mongodb://db.internal:27017"
database = "orderings"

[server]
listen = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Cache.Backend != CacheRedis {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL())
	}
	if cfg.Redis.Addr != "redis.internal:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.Database != "orderings" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Server.Listen = %q, want :9090", cfg.Server.Listen)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = ":3000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Listen != ":3000" {
		t.Errorf("Server.Listen = %q, want :3000", cfg.Server.Listen)
	}
	// Unset sections fall back to defaults
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want default %q", cfg.Cache.Backend, CacheFile)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("Store.Backend = %q, want default %q", cfg.Store.Backend, StoreMemory)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed TOML", content: `[cache`},
		{name: "unknown cache backend", content: "[cache]\nbackend = \"memcached\"\n"},
		{name: "unknown store backend", content: "[store]\nbackend = \"postgres\"\n"},
		{name: "bad duration", content: "[cache]\nttl = \"sometime\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load = nil, want error")
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Empty path
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error: %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want default", cfg.Cache.Backend)
	}

	// Missing file
	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault(missing) error: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Server.Listen = %q, want default", cfg.Server.Listen)
	}

	// Existing file is loaded
	path := writeConfig(t, "[server]\nlisten = \":4000\"\n")
	cfg, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault(existing) error: %v", err)
	}
	if cfg.Server.Listen != ":4000" {
		t.Errorf("Server.Listen = %q, want :4000", cfg.Server.Listen)
	}
}

func TestCacheDirExplicit(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/custom-cache"

	dir, err := cfg.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir error: %v", err)
	}
	if dir != "/tmp/custom-cache" {
		t.Errorf("CacheDir = %q, want /tmp/custom-cache", dir)
	}
}
