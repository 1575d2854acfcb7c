package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Medium is the durable tier: a key/value store that reports its failures.
type Medium interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// sqliteMedium implements Medium on the "kv" table.
type sqliteMedium struct {
	drv *entsql.Driver
}

func (m *sqliteMedium) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(KVColumns[1].Name).
		From(entsql.Table(KVTable.Name)).
		Where(entsql.EQ(KVColumns[0].Name, key)).
		Query()

	rows := &entsql.Rows{}
	if err := m.drv.Query(ctx, query, args, rows); err != nil {
		return nil, false, fmt.Errorf("query %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("read %q: %w", key, err)
		}
		return nil, false, nil
	}

	var value []byte
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan %q: %w", key, err)
	}
	return value, true, nil
}

func (m *sqliteMedium) Put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(KVTable.Name).
		Columns(KVColumns[0].Name, KVColumns[1].Name, KVColumns[2].Name).
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(KVColumns[0].Name),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := m.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (m *sqliteMedium) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(KVTable.Name).
		Where(entsql.EQ(KVColumns[0].Name, key)).
		Query()

	if err := m.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
