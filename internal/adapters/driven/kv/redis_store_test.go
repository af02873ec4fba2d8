package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected key to be absent")
	}

	if err := store.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, found, err := store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || v != "value1" {
		t.Fatalf("expected value1, got %q found=%v", v, found)
	}

	if err := store.Delete(ctx, "key1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, found, err = store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if found {
		t.Fatal("expected key to be gone after delete")
	}
}

func TestRedisStore_HashOperations(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.HSet(ctx, "hash1", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("hset: %v", err)
	}

	all, err := store.HGetAll(ctx, "hash1")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if all["a"] != "1" || all["b"] != "2" {
		t.Fatalf("unexpected hash contents: %v", all)
	}
}

func TestRedisStore_HSetEmptyIsNoop(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.HSet(ctx, "hash1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err := store.HGetAll(ctx, "hash1")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty hash, got %v", all)
	}
}

func TestRedisStore_HDelRemovesWholeKey(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.HSet(ctx, "hash1", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := store.HDel(ctx, "hash1"); err != nil {
		t.Fatalf("hdel: %v", err)
	}
	all, err := store.HGetAll(ctx, "hash1")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected whole hash removed, got %v", all)
	}
}

func TestRedisStore_Incr(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Incr(ctx, "counters", "documents", 3); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if err := store.Incr(ctx, "counters", "documents", 2); err != nil {
		t.Fatalf("incr again: %v", err)
	}

	all, err := store.HGetAll(ctx, "counters")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if all["documents"] != "5" {
		t.Fatalf("expected counter 5, got %s", all["documents"])
	}
}

func TestRedisStore_Keys(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Set(ctx, "category:hr", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "category:finance", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "other:key", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	keys, err := store.Keys(ctx, "category:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 matching keys, got %d: %v", len(keys), keys)
	}
}

func TestRedisStore_DeleteNonexistentIsNoop(t *testing.T) {
	store, _, cleanup := setupTestRedisStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Delete(ctx, "nope"); err != nil {
		t.Fatalf("unexpected error deleting nonexistent key: %v", err)
	}
}
