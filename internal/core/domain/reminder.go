package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidReminderTime = errors.New("invalid reminder time (must be HH:MM 24h)")

var reminderTimeRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// Reminder is a single repeating time-of-day notification trigger.
// It is strictly owned by its habit: deleting the habit deletes the
// reminder rows and cancels the matching triggers.
type Reminder struct {
	ID              string `json:"id" db:"id"`
	HabitID         string `json:"habit_id" db:"habit_id"`
	Time            string `json:"time" db:"time"`
	IsEnabled       bool   `json:"is_enabled" db:"is_enabled"`
	IsCustomMessage bool   `json:"is_custom_message" db:"is_custom_message"`
	CustomMessage   string `json:"custom_message,omitempty" db:"custom_message"`
}

func NewReminder(habitID, at string, enabled, custom bool, message string) (*Reminder, error) {
	if !reminderTimeRegex.MatchString(at) {
		return nil, ErrInvalidReminderTime
	}

	return &Reminder{
		ID:              uuid.New().String(),
		HabitID:         habitID,
		Time:            at,
		IsEnabled:       enabled,
		IsCustomMessage: custom,
		CustomMessage:   message,
	}, nil
}

// HourMinute splits the stored HH:MM wall time. Time is validated at
// construction, so a malformed value here is a programmer error.
func (r *Reminder) HourMinute() (int, int) {
	parts := strings.SplitN(r.Time, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour, minute
}

// TriggerID derives the identifier registered with the notification
// transport. The habit-id prefix is the only cancellation handle.
func (r *Reminder) TriggerID() string {
	return fmt.Sprintf("%s-%s", r.HabitID, r.ID)
}
