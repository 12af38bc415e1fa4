package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const preferencesTable = "preferences"

// currentColumnLayoutVersion bumps whenever the board's column model
// changes shape. Older layouts cannot be migrated and are purged.
const (
	columnLayoutKeyPrefix      = "board.columns.v"
	currentColumnLayoutVersion = 3
)

var prefRowFields = fields(prefRow{})

type prefRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ColumnLayoutKey is the preference key for the current column layout.
func ColumnLayoutKey() string {
	return fmt.Sprintf("%s%d", columnLayoutKeyPrefix, currentColumnLayoutVersion)
}

func staleColumnLayoutKeys() []string {
	keys := make([]string, 0, currentColumnLayoutVersion-1)
	for v := 1; v < currentColumnLayoutVersion; v++ {
		keys = append(keys, fmt.Sprintf("%s%d", columnLayoutKeyPrefix, v))
	}
	return keys
}

// EnsureSchema creates the preferences table and drops layout entries
// written by older builds.
func (s *storageImpl) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS preferences (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}

	q, args, err := s.stmpBuilder().
		Delete(preferencesTable).
		Where(sq.Eq{"key": staleColumnLayoutKeys()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("purge stale layouts: %w", err)
	}

	return nil
}

func (s *storageImpl) Get(ctx context.Context, key string) (string, bool, error) {
	q, args, err := s.stmpBuilder().
		Select(prefRowFields).
		From(preferencesTable).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var p prefRow
	err = row.Scan(&p.Key, &p.Value, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("row.Scan: %w", err)
	}

	return p.Value, true, nil
}

func (s *storageImpl) Set(ctx context.Context, key, value string) error {
	q, args, err := s.stmpBuilder().
		Insert(preferencesTable).
		SetMap(map[string]interface{}{
			"key":        key,
			"value":      value,
			"updated_at": s.now(),
		}).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (s *storageImpl) Remove(ctx context.Context, key string) error {
	q, args, err := s.stmpBuilder().
		Delete(preferencesTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

// Vacuum reclaims file space, meant for the nightly maintenance pass.
func (s *storageImpl) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}
	return nil
}
