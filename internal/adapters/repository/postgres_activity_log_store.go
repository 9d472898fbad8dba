package repository

import (
	"context"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresActivityLogStore persists the append-only progress stream.
type PostgresActivityLogStore struct {
	db *sqlx.DB
}

func NewPostgresActivityLogStore(db *sqlx.DB) *PostgresActivityLogStore {
	return &PostgresActivityLogStore{db: db}
}

func (s *PostgresActivityLogStore) Append(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
        INSERT INTO activity_logs (id, habit_id, date, value)
        VALUES (:id, :habit_id, :date, :value)`

	_, err := s.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrLogConflict
		}
		return err
	}
	return nil
}

func (s *PostgresActivityLogStore) List(ctx context.Context, from, to time.Time) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	query := `
        SELECT * FROM activity_logs
        WHERE date >= $1 AND date <= $2
        ORDER BY date ASC`

	if err := s.db.SelectContext(ctx, &logs, query, from, to); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *PostgresActivityLogStore) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	logs := []*domain.ActivityLog{}

	query := `
        SELECT * FROM activity_logs
        WHERE habit_id = $1
          AND date >= $2 AND date <= $3
        ORDER BY date ASC`

	if err := s.db.SelectContext(ctx, &logs, query, habitID, from, to); err != nil {
		return nil, err
	}
	return logs, nil
}
