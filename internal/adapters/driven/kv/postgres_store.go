package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/adapters/driven/postgres"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.KVStore = (*PostgresStore)(nil)

// PostgresStore implements driven.KVStore over a JSONB table, used when no
// Redis deployment is available (spec §6's "else a PostgreSQL JSONB table").
type PostgresStore struct {
	db *postgres.DB
}

// NewPostgresStore creates a new PostgreSQL-backed KVStore. The caller is
// expected to have already run the kv_store table migration as part of
// schema init.
func NewPostgresStore(db *postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return value.String, value.Valid, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT hash FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows || raw == nil {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv hgetall: %w", err)
	}
	out := map[string]string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("kv hgetall: decoding hash: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("kv hset: marshalling fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, hash) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			hash = COALESCE(kv_store.hash, '{}'::jsonb) || excluded.hash,
			updated_at = now()
	`, key, patch)
	if err != nil {
		return fmt.Errorf("kv hset: %w", err)
	}
	return nil
}

func (s *PostgresStore) HDel(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE kv_store SET hash = NULL, updated_at = now() WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("kv hdel: %w", err)
	}
	return nil
}

func (s *PostgresStore) Incr(ctx context.Context, key string, field string, delta int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, hash) VALUES ($1, jsonb_build_object($2::text, $3::bigint))
		ON CONFLICT (key) DO UPDATE SET
			hash = jsonb_set(
				COALESCE(kv_store.hash, '{}'::jsonb),
				ARRAY[$2::text],
				to_jsonb(COALESCE((kv_store.hash->>$2)::bigint, 0) + $3::bigint)
			),
			updated_at = now()
	`, key, field, delta)
	if err != nil {
		return fmt.Errorf("kv incr: %w", err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_store WHERE key LIKE $1`, escapeLikePrefix(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
