// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// GetKVEntry returns sql.ErrNoRows when key is absent.
func (q *Queries) GetKVEntry(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	return value, err
}

// UpsertKVEntryParams holds the columns for a key-value write.
type UpsertKVEntryParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// UpsertKVEntry inserts or replaces a key-value entry.
func (q *Queries) UpsertKVEntry(ctx context.Context, arg UpsertKVEntryParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.UpdatedAt,
	)
	return err
}

// DeleteKVEntry removes a key-value entry if present.
func (q *Queries) DeleteKVEntry(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	return err
}
