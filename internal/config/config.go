package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Store struct {
		// Driver is memory, redis or postgres.
		Driver string `yaml:"driver"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Tracker struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"tracker"`
	Auth struct {
		JWTSecret string   `yaml:"jwtSecret"`
		Admins    []string `yaml:"admins"`
	} `yaml:"auth"`
}

// Load reads YAML config from path and applies environment overrides. A
// missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"PORT", &c.Server.Port},
		{"STORE_DRIVER", &c.Store.Driver},
		{"REDIS_ADDR", &c.Redis.Addr},
		{"DATABASE_URL", &c.Postgres.URL},
		{"JWT_SECRET", &c.Auth.JWTSecret},
		{"TRACKER_TIMEZONE", &c.Tracker.Timezone},
		{"LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
	if v := os.Getenv("ADMIN_USERS"); v != "" {
		c.Auth.Admins = strings.Split(v, ",")
	}
}

// StoreDriver is the configured driver, inferred from the connection
// settings when not set.
func (c Config) StoreDriver() string {
	if c.Store.Driver != "" {
		return strings.ToLower(c.Store.Driver)
	}
	switch {
	case c.Postgres.URL != "":
		return "postgres"
	case c.Redis.Addr != "":
		return "redis"
	}
	return "memory"
}

// Location resolves the tracker time zone that defines calendar days.
func (c Config) Location() *time.Location {
	if c.Tracker.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Tracker.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
