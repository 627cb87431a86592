package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// Manager is the multi-tier cache. Reads cascade through the tiers in
// priority order (kv, docs, files) with lazy per-read expiry; writes go to
// the single highest available tier only; deletes fan out to every tier.
//
// The asymmetry is deliberate and inherited from the source design: a value
// written while tier 1 was down will keep costing a tier-2/3 cascade on every
// read after tier 1 recovers, until some later write lands in tier 1 again.
//
// Tier-level errors never propagate: they are logged and treated as a miss
// (reads) or as "tier unavailable" (writes).
type Manager struct {
	kv    KVStore
	docs  DocStore
	files *FileStore
	ttl   TTLSet
}

// NewManager wires the available tiers. Any handle may be nil, which
// disables its tier.
func NewManager(kv KVStore, docs DocStore, files *FileStore, ttl TTLSet) *Manager {
	return &Manager{kv: kv, docs: docs, files: files, ttl: ttl}
}

// TTL exposes the configured TTL set.
func (m *Manager) TTL() TTLSet {
	return m.ttl
}

// Get reads through the tiers and returns the cached payload, or ok=false
// when every tier misses.
func (m *Manager) Get(ctx context.Context, namespace string, parts ...string) (json.RawMessage, bool) {
	key := Key(namespace, parts...)
	now := time.Now()

	if m.kv != nil {
		value, ok, err := m.kv.Get(ctx, key)
		switch {
		case err != nil:
			logx.WithContext(ctx).Infof("cache: tier-1 read failed for %s: %v", key, err)
		case ok:
			if json.Valid([]byte(value)) {
				return json.RawMessage(value), true
			}
			logx.WithContext(ctx).Infof("cache: tier-1 payload for %s is not valid JSON, skipping", key)
		}
	}

	if m.docs != nil {
		doc, err := m.docs.FindOne(ctx, key)
		switch {
		case err != nil:
			logx.WithContext(ctx).Infof("cache: tier-2 read failed for %s: %v", key, err)
		case doc != nil:
			if now.After(doc.ExpiresAt) {
				if err := m.docs.Delete(ctx, key); err != nil {
					logx.WithContext(ctx).Infof("cache: tier-2 expiry delete failed for %s: %v", key, err)
				}
			} else if json.Valid([]byte(doc.Value)) {
				return json.RawMessage(doc.Value), true
			} else {
				logx.WithContext(ctx).Infof("cache: tier-2 payload for %s is not valid JSON, skipping", key)
			}
		}
	}

	if m.files != nil {
		value, expiresAt, ok, err := m.files.Read(key)
		switch {
		case err != nil:
			logx.WithContext(ctx).Infof("cache: tier-3 read failed for %s: %v", key, err)
		case ok:
			// A zero expiry marks a never-expiring entry, part of the
			// on-disk contract shared with other writers.
			if !expiresAt.IsZero() && now.After(expiresAt) {
				if err := m.files.Delete(key); err != nil {
					logx.WithContext(ctx).Infof("cache: tier-3 expiry delete failed for %s: %v", key, err)
				}
			} else if json.Valid([]byte(value)) {
				return json.RawMessage(value), true
			} else {
				logx.WithContext(ctx).Infof("cache: tier-3 payload for %s is not valid JSON, skipping", key)
			}
		}
	}

	return nil, false
}

// GetValue reads through the tiers and unmarshals the payload into out.
// A payload that fails to unmarshal counts as a miss.
func (m *Manager) GetValue(ctx context.Context, out any, namespace string, parts ...string) bool {
	raw, ok := m.Get(ctx, namespace, parts...)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logx.WithContext(ctx).Infof("cache: decode %s: %v", Key(namespace, parts...), err)
		return false
	}
	return true
}

// Set writes the value with the default TTL.
func (m *Manager) Set(ctx context.Context, value any, namespace string, parts ...string) {
	m.SetWithTTL(ctx, value, m.ttl.Default, namespace, parts...)
}

// SetWithTTL serializes the value and writes it to the highest available
// tier only: tier 2 is attempted only when tier 1 fails, tier 3 only when
// tier 2 fails too. Write failure across all tiers is silent (logged).
func (m *Manager) SetWithTTL(ctx context.Context, value any, ttl time.Duration, namespace string, parts ...string) {
	key := Key(namespace, parts...)
	payload, err := json.Marshal(value)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: encode %s: %v", key, err)
		return
	}

	if m.kv != nil {
		err := m.kv.SetEx(ctx, key, string(payload), ttl)
		if err == nil {
			return
		}
		logx.WithContext(ctx).Infof("cache: tier-1 write failed for %s: %v", key, err)
	}

	expiresAt := time.Now().Add(ttl)
	if m.docs != nil {
		err := m.docs.Upsert(ctx, Document{Key: key, Value: string(payload), ExpiresAt: expiresAt})
		if err == nil {
			return
		}
		logx.WithContext(ctx).Infof("cache: tier-2 write failed for %s: %v", key, err)
	}

	if m.files != nil {
		if err := m.files.Write(key, string(payload), expiresAt); err != nil {
			logx.WithContext(ctx).Infof("cache: tier-3 write failed for %s: %v", key, err)
		}
	}
}

// Delete removes the entry from every tier unconditionally; absence or
// failure in a tier is ignored.
func (m *Manager) Delete(ctx context.Context, namespace string, parts ...string) {
	key := Key(namespace, parts...)
	if m.kv != nil {
		if err := m.kv.Del(ctx, key); err != nil {
			logx.WithContext(ctx).Infof("cache: tier-1 delete failed for %s: %v", key, err)
		}
	}
	if m.docs != nil {
		if err := m.docs.Delete(ctx, key); err != nil {
			logx.WithContext(ctx).Infof("cache: tier-2 delete failed for %s: %v", key, err)
		}
	}
	if m.files != nil {
		if err := m.files.Delete(key); err != nil {
			logx.WithContext(ctx).Infof("cache: tier-3 delete failed for %s: %v", key, err)
		}
	}
}

// TierStats reports health and entry counts for one tier.
type TierStats struct {
	Status    string `json:"status"`
	Keys      int64  `json:"keys,omitempty"`
	Documents int64  `json:"documents,omitempty"`
	Files     int    `json:"files,omitempty"`
	Dir       string `json:"dir,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Stats captures per-tier health and counts.
type Stats struct {
	Redis TierStats `json:"redis"`
	Mongo TierStats `json:"mongodb"`
	File  TierStats `json:"file"`
}

const (
	statusHealthy  = "healthy"
	statusDisabled = "disabled"
	statusError    = "error"
)

// Stats returns per-tier counts and health.
func (m *Manager) Stats(ctx context.Context) Stats {
	var out Stats

	if m.kv == nil {
		out.Redis = TierStats{Status: statusDisabled}
	} else if n, err := m.kv.Count(ctx); err != nil {
		out.Redis = TierStats{Status: statusError, Error: err.Error()}
	} else {
		out.Redis = TierStats{Status: statusHealthy, Keys: n}
	}

	if m.docs == nil {
		out.Mongo = TierStats{Status: statusDisabled}
	} else if n, err := m.docs.Count(ctx); err != nil {
		out.Mongo = TierStats{Status: statusError, Error: err.Error()}
	} else {
		out.Mongo = TierStats{Status: statusHealthy, Documents: n}
	}

	if m.files == nil {
		out.File = TierStats{Status: statusDisabled}
	} else if n, err := m.files.Count(); err != nil {
		out.File = TierStats{Status: statusError, Error: err.Error()}
	} else {
		out.File = TierStats{Status: statusHealthy, Files: n, Dir: m.files.Dir()}
	}

	return out
}
