package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: \"9000\"\nredis:\n  addr: localhost:6379\ncache:\n  ttl: 30s\nauth:\n  admins: [alice]\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "postgres://tracker@localhost/tracker")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port from file, got %q", cfg.Server.Port)
	}
	if cfg.StoreDriver() != "postgres" {
		t.Fatalf("expected postgres inferred from env url, got %q", cfg.StoreDriver())
	}
	if got := TTLDuration(cfg.Cache.TTL, time.Minute); got != 30*time.Second {
		t.Fatalf("unexpected ttl %v", got)
	}
	if len(cfg.Auth.Admins) != 1 || cfg.Auth.Admins[0] != "alice" {
		t.Fatalf("unexpected admins %v", cfg.Auth.Admins)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("TRACKER_TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver() != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver())
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location())
	}
}
