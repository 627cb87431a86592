package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockdata-api/internal/config"
)

func TestKeyJoinsParts(t *testing.T) {
	require.Equal(t, "history:CN:600519:2024-01-01:2024-12-31",
		Key("history", "CN", "600519", "2024-01-01", "2024-12-31"))
	require.Equal(t, "stock_list:CN", Key("stock_list", "CN"))
	require.Equal(t, "ns", Key("ns"))
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("history", "CN", "600519")
	b := Key("history", "CN", "600519")
	require.Equal(t, a, b)
}

func TestKeyLongInputsCollapseToHash(t *testing.T) {
	long := strings.Repeat("x", 300)
	key := Key("history", long)

	require.LessOrEqual(t, len(key), maxKeyLength)
	require.True(t, strings.HasPrefix(key, "history:"))
	require.Len(t, strings.TrimPrefix(key, "history:"), 32)

	// Same long input, same hash.
	require.Equal(t, key, Key("history", long))
	require.NotEqual(t, key, Key("history", long+"y"))
}

func TestNewTTLSet(t *testing.T) {
	ttl := NewTTLSet(config.CacheConf{TTL: 60, HistoryTTL: 120, ListTTL: 240})
	require.Equal(t, time.Minute, ttl.Default)
	require.Equal(t, 2*time.Minute, ttl.History)
	require.Equal(t, 4*time.Minute, ttl.List)

	fallback := NewTTLSet(config.CacheConf{})
	require.Equal(t, time.Hour, fallback.Default)
	require.Equal(t, 2*time.Hour, fallback.History)
	require.Equal(t, 4*time.Hour, fallback.List)
}
