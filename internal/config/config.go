package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"stockdata-api/pkg/confkit"
)

// RedisConf configures the tier-1 cache store.
type RedisConf struct {
	Host     string `json:",default=localhost"`
	Port     int    `json:",default=6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
	Enabled  bool   `json:",default=true"`
}

// Addr returns the host:port dial address.
func (c RedisConf) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoConf configures the tier-2 cache store.
type MongoConf struct {
	URI        string `json:",default=mongodb://localhost:27017"`
	Database   string `json:",default=tradingagents"`
	Collection string `json:",default=data_cache"`
	Enabled    bool   `json:",default=true"`
}

// CacheConf holds TTLs (seconds) and the tier-3 directory. History and list
// entries carry their own, longer TTLs than the generic default.
type CacheConf struct {
	TTL        int    `json:",default=3600"`
	HistoryTTL int    `json:",default=7200"`
	ListTTL    int    `json:",default=14400"`
	Dir        string `json:",default=./cache"`
}

// UserConf is a static credential entry for the auth service.
type UserConf struct {
	Username string
	Password string
}

// AuthConf configures JWT issuance and the demo user store.
type AuthConf struct {
	Secret        string     `json:",default=change-me-in-production"`
	ExpireMinutes int        `json:",default=60"`
	Users         []UserConf `json:",optional"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod.
	Env   string    `json:",default=dev"`
	Redis RedisConf `json:",optional"`
	Mongo MongoConf `json:",optional"`
	Cache CacheConf `json:",optional"`
	Auth  AuthConf  `json:",optional"`
	// Providers is the path to the provider config file, resolved relative to
	// the main config file.
	Providers string `json:",default=providers.yaml"`

	mainPath string
	baseDir  string
}

// ProviderPath resolves the provider config file against the main config dir.
func (c *Config) ProviderPath() string {
	return confkit.ResolvePath(c.baseDir, c.Providers)
}

// MainPath returns the absolute path the config was loaded from.
func (c *Config) MainPath() string {
	return c.mainPath
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "dev"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("config: cache.ttl must be positive")
	}
	if c.Cache.HistoryTTL <= 0 {
		return errors.New("config: cache.historyTTL must be positive")
	}
	if c.Cache.ListTTL <= 0 {
		return errors.New("config: cache.listTTL must be positive")
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		return errors.New("config: cache.dir is required")
	}
	if strings.TrimSpace(c.Providers) == "" {
		return errors.New("config: providers file is required")
	}
	return nil
}
