package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidLog = errors.New("invalid activity log data")

// ActivityLog is an append-only record of a single progress write.
// Value is the delta applied by that write, so a day's total progress
// is the sum of its rows; a manual correction downward appends a
// negative delta. Rows are never mutated and survive the deletion of
// their habit, so historical heatmap scores stay derivable from the
// log stream alone.
type ActivityLog struct {
	ID      string    `json:"id" db:"id"`
	HabitID string    `json:"habit_id" db:"habit_id"`
	Date    time.Time `json:"date" db:"date"`
	Value   float64   `json:"value" db:"value"`
}

func NewActivityLog(habitID string, date time.Time, value float64) *ActivityLog {
	return &ActivityLog{
		ID:      uuid.New().String(),
		HabitID: habitID,
		Date:    date,
		Value:   value,
	}
}

func (l *ActivityLog) Validate() error {
	if strings.TrimSpace(l.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if l.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
