package provider

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"stockdata-api/pkg/confkit"
)

// Config describes the set of data providers and the per-market failover
// order. It is read-only after load; the candidate order for a request is
// recomputed from it each time.
type Config struct {
	// Default is tried first for every market it serves.
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
	// Fallback lists provider ids per market in fixed fallback order.
	Fallback map[string][]string `yaml:"fallback"`
}

// ProviderConfig configures a single provider.
type ProviderConfig struct {
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Enabled *bool  `yaml:"enabled"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// IsEnabled reports whether the provider participates in failover.
// Providers are enabled unless explicitly disabled.
func (p *ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Builder constructs a Provider from configuration.
type Builder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	registry   = make(map[string]Builder)
	registryMu sync.RWMutex
)

// Register registers a provider constructor under a type name.
func Register(typeName string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupBuilder(typeName string) (Builder, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	builder, ok := registry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provider config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal provider config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if provider.TimeoutRaw != "" {
			d, err := time.ParseDuration(provider.TimeoutRaw)
			if err != nil {
				return fmt.Errorf("provider %s: invalid timeout %q: %w", name, provider.TimeoutRaw, err)
			}
			if d <= 0 {
				return fmt.Errorf("provider %s: timeout must be positive, got %s", name, d)
			}
			provider.Timeout = d
		}
	}
	return nil
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.Token = strings.TrimSpace(os.ExpandEnv(p.Token))
	p.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.TimeoutRaw))
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("provider config: providers cannot be empty")
	}
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return fmt.Errorf("provider config: default provider %q not defined", c.Default)
		}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("provider config: provider name cannot be empty")
		}
		if provider == nil {
			return fmt.Errorf("provider config: provider %s is nil", name)
		}
		if strings.TrimSpace(provider.Type) == "" {
			return fmt.Errorf("provider config: provider %s must specify type", name)
		}
		if _, ok := lookupBuilder(provider.Type); !ok {
			return fmt.Errorf("provider config: provider %s has unsupported type %q", name, provider.Type)
		}
	}
	for market, ids := range c.Fallback {
		for _, id := range ids {
			if _, ok := c.Providers[id]; !ok {
				return fmt.Errorf("provider config: market %s references unknown provider %q", market, id)
			}
		}
	}
	return nil
}

// BuildProviders instantiates every enabled provider.
func (c *Config) BuildProviders() (map[string]Provider, error) {
	result := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		if !providerCfg.IsEnabled() {
			continue
		}
		builder, ok := lookupBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		result[name] = provider
	}
	return result, nil
}
