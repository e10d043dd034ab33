package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Logger  Logger  `yaml:"logger"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	Cache   Cache   `yaml:"cache"`
	Listen  string  `yaml:"listen"`
	Admin   Admin   `yaml:"admin"`
	CORS    CORS    `yaml:"cors"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type Storage struct {
	Database      string `yaml:"database"`
	SourceMaxSize int64  `yaml:"source_max_size"` // bytes, 0 means unlimited
}

type Auth struct {
	JWT   JWT   `yaml:"jwt"`
	Local Local `yaml:"local"`
}

// Local defines configuration for username/password authentication.
type Local struct {
	Enabled bool `yaml:"enabled"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// Cache configures the scoreboard snapshot cache. Without a redis address the
// snapshots are cached in process.
type Cache struct {
	TTL   string `yaml:"ttl"`
	Redis Redis  `yaml:"redis"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const defaultCacheTTL = 10 * time.Second

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CacheTTL parses cache.ttl, falling back to the default when it is empty or
// malformed.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return defaultCacheTTL
	}
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil {
		return d
	}
	return defaultCacheTTL
}
