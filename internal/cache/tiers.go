package cache

import (
	"context"
	"time"
)

// The manager reads through up to three heterogeneous tiers. Each tier is
// borrowed from the surrounding process behind a narrow handle so tests can
// substitute fakes and a missing backend simply disables its tier.

// KVStore is the tier-1 handle: a volatile key/value store that enforces TTL
// natively. Get reports absence with ok=false and a nil error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Document is a tier-2 cache entry. Other collaborators rely on this schema:
// {key, value, expires_at}. The payload is stored as its serialized JSON
// string so it round-trips byte-exact with the other tiers.
type Document struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// DocStore is the tier-2 handle: a persistent document store. Expiry is an
// explicit expires_at field checked by the manager on read. FindOne reports
// absence with a nil document and a nil error.
type DocStore interface {
	FindOne(ctx context.Context, key string) (*Document, error)
	Upsert(ctx context.Context, doc Document) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
