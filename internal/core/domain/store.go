package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrLogConflict   = errors.New("activity log id conflict")
)

// HabitStore persists habit definitions together with their owned
// reminder sets. Implementations must be atomic within a call: the
// service never observes a half-applied write.
type HabitStore interface {
	// Create persists a new habit and its reminders.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit, reminders attached.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// List retrieves every habit ordered by sort_order ascending.
	List(ctx context.Context) ([]*Habit, error)

	// Update saves the habit and replaces its reminder set.
	Update(ctx context.Context, habit *Habit) error

	// Delete removes the habit and cascades to its reminders.
	// Activity logs referencing the habit are retained.
	Delete(ctx context.Context, id string) error

	// Reorder atomically rewrites sort_order so that orderedIDs[i]
	// gets sort order i. The full id set must be passed.
	Reorder(ctx context.Context, orderedIDs []string) error

	// ResetCurrentValues zeroes current_value on every habit.
	ResetCurrentValues(ctx context.Context) error
}

// ActivityLogStore persists the append-only progress stream.
type ActivityLogStore interface {
	// Append inserts a new log row. Rows are never updated.
	Append(ctx context.Context, log *ActivityLog) error

	// List retrieves logs whose date falls in [from, to].
	List(ctx context.Context, from, to time.Time) ([]*ActivityLog, error)

	// ListByHabitID retrieves one habit's logs in [from, to].
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*ActivityLog, error)
}

// StateStore holds process-wide scalar state. The only key today is the
// last day-boundary reset timestamp; its single writer is the watcher.
type StateStore interface {
	// LastReset returns the timestamp of the most recent daily reset,
	// or the zero time when no reset was ever recorded.
	LastReset(ctx context.Context) (time.Time, error)

	SetLastReset(ctx context.Context, t time.Time) error
}
