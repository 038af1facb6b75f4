package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dvi/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	e, err := r.Lookup(ctx, key)
	if err != nil || e == nil {
		return nil, err
	}
	return e.Value, nil
}

// Lookup returns the value together with its write time.
func (r *SQLiteRepository) Lookup(ctx context.Context, key string) (*Entry, error) {
	var (
		value []byte
		ms    int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT value, updated_at FROM metadata WHERE key = ?`, key).Scan(&value, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}

	e := &Entry{Value: value}
	if ms > 0 {
		e.UpdatedAt = time.UnixMilli(ms)
	}
	return e, nil
}

// Set upserts value and stamps the write time in a single statement, so a
// concurrent reader sees either the old or the new value, never a mix.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix. The comparison is
// literal, so "_" and "%" in prefix have no special meaning.
func (r *SQLiteRepository) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("failed to delete metadata[%s*]: empty prefix", prefix)
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s*]: %w", prefix, err)
	}
	return nil
}
