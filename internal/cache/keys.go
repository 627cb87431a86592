package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"stockdata-api/internal/config"
)

// maxKeyLength bounds joined keys so backends with key-length limits never
// see an unbounded key; longer keys collapse to namespace + hash.
const maxKeyLength = 200

// Key builds the logical cache key for a namespace and its parts. It is pure
// and deterministic: identical inputs always yield the identical key.
func Key(namespace string, parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, namespace)
	values = append(values, parts...)
	raw := strings.Join(values, ":")
	if len(raw) > maxKeyLength {
		sum := md5.Sum([]byte(raw))
		return namespace + ":" + hex.EncodeToString(sum[:])
	}
	return raw
}

// TTLSet normalises the configured cache TTLs into durations. History and
// list entries get their own, longer TTLs than the generic default.
type TTLSet struct {
	Default time.Duration
	History time.Duration
	List    time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheConf) TTLSet {
	return TTLSet{
		Default: durationOrDefault(cfg.TTL, time.Hour),
		History: durationOrDefault(cfg.HistoryTTL, 2*time.Hour),
		List:    durationOrDefault(cfg.ListTTL, 4*time.Hour),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
