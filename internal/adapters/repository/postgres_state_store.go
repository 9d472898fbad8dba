package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const lastResetKey = "LastResetDate"

// PostgresStateStore persists process-wide scalar state in a small
// key/value table.
type PostgresStateStore struct {
	db *sqlx.DB
}

func NewPostgresStateStore(db *sqlx.DB) *PostgresStateStore {
	return &PostgresStateStore{db: db}
}

func (s *PostgresStateStore) LastReset(ctx context.Context) (time.Time, error) {
	var t time.Time

	query := `SELECT value FROM app_state WHERE key = $1`
	err := s.db.GetContext(ctx, &t, query, lastResetKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func (s *PostgresStateStore) SetLastReset(ctx context.Context, t time.Time) error {
	query := `
        INSERT INTO app_state (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	_, err := s.db.ExecContext(ctx, query, lastResetKey, t.UTC())
	return err
}
