package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeConfig(t, `
Name: stockdata-test
Host: 127.0.0.1
Port: 8888
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "data_cache", cfg.Mongo.Collection)
	require.Equal(t, 3600, cfg.Cache.TTL)
	require.Equal(t, 7200, cfg.Cache.HistoryTTL)
	require.Equal(t, 14400, cfg.Cache.ListTTL)
	require.Equal(t, 60, cfg.Auth.ExpireMinutes)
	require.Equal(t, filepath.Join(filepath.Dir(path), "providers.yaml"), cfg.ProviderPath())
	require.Equal(t, path, cfg.MainPath())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeConfig(t, `
Name: stockdata-test
Host: 127.0.0.1
Port: 8888
Env: prod
Redis:
  Host: cache.internal
  Port: 6380
  Enabled: false
Cache:
  TTL: 30
  HistoryTTL: 60
  ListTTL: 90
  Dir: /var/cache/stockdata
Providers: conf/providers.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "cache.internal:6380", cfg.Redis.Addr())
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, 30, cfg.Cache.TTL)
	require.Equal(t, "/var/cache/stockdata", cfg.Cache.Dir)
	require.Equal(t, filepath.Join(filepath.Dir(path), "conf/providers.yaml"), cfg.ProviderPath())
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeConfig(t, `
Name: stockdata-test
Host: 127.0.0.1
Port: 8888
Env: staging
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "env must be one of")
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeConfig(t, `
Name: stockdata-test
Host: 127.0.0.1
Port: 8888
Cache:
  TTL: -1
`)

	_, err := Load(path)
	require.Error(t, err)
}
