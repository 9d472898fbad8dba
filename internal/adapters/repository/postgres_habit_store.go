package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresHabitStore persists habits and their owned reminder rows.
// Every mutating call runs in a single transaction, so the service
// never observes a half-applied write.
type PostgresHabitStore struct {
	db *sqlx.DB
}

func NewPostgresHabitStore(db *sqlx.DB) *PostgresHabitStore {
	return &PostgresHabitStore{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (s *PostgresHabitStore) scanHabit(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var frequencyJSON []byte

	err := row.Scan(
		&h.ID, &h.Title, &h.Emoji, &h.Category, &h.Unit,
		&h.Type, &h.GoalValue, &h.CurrentValue,
		&h.Recurrence, &frequencyJSON, &h.RoutineTime,
		&h.SortOrder, &h.MotivationText,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(frequencyJSON) > 0 {
		if err := json.Unmarshal(frequencyJSON, &h.Frequency); err != nil {
			return nil, fmt.Errorf("failed to unmarshal frequency: %w", err)
		}
	}

	return &h, nil
}

const habitColumns = `
        id, title, emoji, category, unit,
        type, goal_value, current_value,
        recurrence, frequency, routine_time,
        sort_order, motivation_text,
        created_at, updated_at`

func (s *PostgresHabitStore) Create(ctx context.Context, h *domain.Habit) error {
	frequencyJSON, err := json.Marshal(h.Frequency)
	if err != nil {
		return fmt.Errorf("failed to marshal frequency: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO habits (` + habitColumns + `
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8,
            $9, $10, $11,
            $12, $13,
            $14, $15
        )`

	_, err = tx.ExecContext(ctx, query,
		h.ID, h.Title, h.Emoji, h.Category, h.Unit,
		h.Type, h.GoalValue, h.CurrentValue,
		h.Recurrence, frequencyJSON, h.RoutineTime,
		h.SortOrder, h.MotivationText,
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := insertReminders(ctx, tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func insertReminders(ctx context.Context, tx *sqlx.Tx, h *domain.Habit) error {
	query := `
        INSERT INTO reminders (id, habit_id, time, is_enabled, is_custom_message, custom_message)
        VALUES (:id, :habit_id, :time, :is_enabled, :is_custom_message, :custom_message)`

	for _, r := range h.Reminders {
		if _, err := tx.NamedExecContext(ctx, query, r); err != nil {
			return fmt.Errorf("failed to insert reminder: %w", err)
		}
	}
	return nil
}

func (s *PostgresHabitStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)

	h, err := s.scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	if err := s.attachReminders(ctx, []*domain.Habit{h}); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *PostgresHabitStore) List(ctx context.Context) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        ORDER BY sort_order ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	if err := s.attachReminders(ctx, habits); err != nil {
		return nil, err
	}

	return habits, nil
}

func (s *PostgresHabitStore) attachReminders(ctx context.Context, habits []*domain.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Habit, len(habits))
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
		ids = append(ids, h.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM reminders WHERE habit_id IN (?) ORDER BY time ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to build reminder query: %w", err)
	}
	query = s.db.Rebind(query)

	var reminders []*domain.Reminder
	if err := s.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return fmt.Errorf("reminder query error: %w", err)
	}

	for _, r := range reminders {
		if h, ok := byID[r.HabitID]; ok {
			h.Reminders = append(h.Reminders, r)
		}
	}

	return nil
}

func (s *PostgresHabitStore) Update(ctx context.Context, h *domain.Habit) error {
	frequencyJSON, err := json.Marshal(h.Frequency)
	if err != nil {
		return fmt.Errorf("failed to marshal frequency: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        UPDATE habits SET
            title=$1, emoji=$2, category=$3, unit=$4,
            type=$5, goal_value=$6, current_value=$7,
            recurrence=$8, frequency=$9, routine_time=$10,
            sort_order=$11, motivation_text=$12,
            updated_at=NOW()
        WHERE id=$13`

	res, err := tx.ExecContext(ctx, query,
		h.Title, h.Emoji, h.Category, h.Unit,
		h.Type, h.GoalValue, h.CurrentValue,
		h.Recurrence, frequencyJSON, h.RoutineTime,
		h.SortOrder, h.MotivationText,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	// The reminder set is owned: replace it wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE habit_id = $1`, h.ID); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	if err := insertReminders(ctx, tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresHabitStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("failed to cascade reminders: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return tx.Commit()
}

func (s *PostgresHabitStore) Reorder(ctx context.Context, orderedIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE habits SET sort_order = $1, updated_at = NOW() WHERE id = $2`

	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, query, i, id)
		if err != nil {
			return fmt.Errorf("reorder update failed: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrHabitNotFound
		}
	}

	return tx.Commit()
}

func (s *PostgresHabitStore) ResetCurrentValues(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE habits SET current_value = 0, updated_at = NOW()`); err != nil {
		return fmt.Errorf("daily reset query failed: %w", err)
	}
	return nil
}
