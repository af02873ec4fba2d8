package driven

import "context"

// KVStore is the flat key-value side channel used for file hash lookups,
// per-hash metadata, custom per-domain categories, and rolling analytics
// counters (spec §6). Backed by Redis when available, else a PostgreSQL
// JSONB table, mirroring the dual-backend pattern used for sessions/queue/lock.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// HGetAll/HSet/HDel operate on the hash-shaped keys (file_metadata:<hash>, etc).
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HDel(ctx context.Context, key string) error

	// Incr increments a counter key (used for analytics:stats / stats:languages).
	Incr(ctx context.Context, key string, field string, delta int64) error

	// Keys lists keys matching a prefix (used by the prune sweep).
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
