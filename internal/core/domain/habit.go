package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty      = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong    = errors.New("habit title is too long (max 100 chars)")
	ErrMotivationTooLong    = errors.New("motivation text is too long (max 2000 chars)")
	ErrInvalidGoal          = errors.New("goal value must be positive")
	ErrInvalidProgress      = errors.New("progress value cannot be negative")
	ErrInvalidHabitType     = errors.New("invalid habit type (must be checkmark or value)")
	ErrInvalidRecurrence    = errors.New("invalid recurrence (must be daily, weekly, or monthly)")
	ErrInvalidRoutineTime   = errors.New("invalid routine time (must be morning, day, or evening)")
	ErrInvalidWeekdays      = errors.New("invalid weekdays (must be 1-7, 1=Sunday)")
	ErrWeeklyNeedsFrequency = errors.New("weekly recurrence requires at least one weekday")
)

const (
	HabitTypeCheckmark = "checkmark"
	HabitTypeValue     = "value"

	RecurrenceDaily  = "daily"
	RecurrenceWeekly = "weekly"
	// RecurrenceMonthly is active on every day of the month. The product
	// never grew a day-of-month field, so "monthly" deliberately behaves
	// like "daily" in both scoring and visibility.
	RecurrenceMonthly = "monthly"

	RoutineMorning = "morning"
	RoutineDay     = "day"
	RoutineEvening = "evening"

	MaxTitleLen      = 100
	MaxMotivationLen = 2000
)

// Habit is a recurring intention. It owns its reminder set; activity
// history lives in ActivityLog records that reference it by id only.
type Habit struct {
	ID             string      `json:"id" db:"id"`
	Title          string      `json:"title" db:"title"`
	Emoji          string      `json:"emoji" db:"emoji"`
	Category       string      `json:"category" db:"category"`
	Unit           string      `json:"unit" db:"unit"`
	Type           string      `json:"type" db:"type"`
	GoalValue      float64     `json:"goal_value" db:"goal_value"`
	CurrentValue   float64     `json:"current_value" db:"current_value"`
	Recurrence     string      `json:"recurrence" db:"recurrence"`
	Frequency      []int       `json:"frequency,omitempty" db:"-"`
	RoutineTime    string      `json:"routine_time" db:"routine_time"`
	SortOrder      int         `json:"sort_order" db:"sort_order"`
	MotivationText string      `json:"motivation_text,omitempty" db:"motivation_text"`
	Reminders      []*Reminder `json:"reminders" db:"-"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// WeekdayIndex maps a point in time to the 1..7 weekday convention used
// by Habit.Frequency: 1=Sunday ... 7=Saturday.
func WeekdayIndex(t time.Time) int {
	return int(t.Weekday()) + 1
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func validateHabit(title, hType, recurrence, routineTime, motivation string, goal float64, frequency []int) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if len(motivation) > MaxMotivationLen {
		return ErrMotivationTooLong
	}

	switch hType {
	case HabitTypeCheckmark, HabitTypeValue:
	default:
		return ErrInvalidHabitType
	}

	if goal <= 0 {
		return ErrInvalidGoal
	}

	switch recurrence {
	case RecurrenceDaily, RecurrenceMonthly:
	case RecurrenceWeekly:
		if len(frequency) == 0 {
			return ErrWeeklyNeedsFrequency
		}
	default:
		return ErrInvalidRecurrence
	}

	for _, day := range frequency {
		if day < 1 || day > 7 {
			return ErrInvalidWeekdays
		}
	}

	switch routineTime {
	case RoutineMorning, RoutineDay, RoutineEvening:
	default:
		return ErrInvalidRoutineTime
	}

	return nil
}

func NewHabit(title, emoji, category, unit, hType, recurrence, routineTime, motivation string, goal float64, frequency []int) (*Habit, error) {
	if err := validateHabit(title, hType, recurrence, routineTime, motivation, goal, frequency); err != nil {
		return nil, err
	}

	// Checkmark habits toggle 0/1 against a fixed goal of 1.
	if hType == HabitTypeCheckmark {
		goal = 1
		unit = ""
	}

	now := time.Now().UTC()

	return &Habit{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(title),
		Emoji:          emoji,
		Category:       category,
		Unit:           unit,
		Type:           hType,
		GoalValue:      goal,
		CurrentValue:   0,
		Recurrence:     recurrence,
		Frequency:      normalizeWeekdays(frequency),
		RoutineTime:    routineTime,
		MotivationText: motivation,
		SortOrder:      0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (h *Habit) Update(title, emoji, category, unit, hType, recurrence, routineTime, motivation string, goal float64, frequency []int) error {
	if err := validateHabit(title, hType, recurrence, routineTime, motivation, goal, frequency); err != nil {
		return err
	}

	if hType == HabitTypeCheckmark {
		goal = 1
		unit = ""
	}

	h.Title = strings.TrimSpace(title)
	h.Emoji = emoji
	h.Category = category
	h.Unit = unit
	h.Type = hType
	h.GoalValue = goal
	h.Recurrence = recurrence
	h.Frequency = normalizeWeekdays(frequency)
	h.RoutineTime = routineTime
	h.MotivationText = motivation
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// IsCompleted reports whether today's goal is met. Overshoot past the
// goal still counts as completed.
func (h *Habit) IsCompleted() bool {
	return h.CurrentValue >= h.GoalValue
}

// IsActiveOn reports whether the habit's recurrence rule makes it
// applicable on the given day. This single predicate drives both the
// score engine and the visible-habit filter.
func (h *Habit) IsActiveOn(day time.Time) bool {
	switch h.Recurrence {
	case RecurrenceDaily, RecurrenceMonthly:
		return true
	case RecurrenceWeekly:
		weekday := WeekdayIndex(day)
		for _, d := range h.Frequency {
			if d == weekday {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (h *Habit) SetProgress(value float64) error {
	if value < 0 {
		return ErrInvalidProgress
	}
	h.CurrentValue = value
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) ChangePosition(newOrder int) {
	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
}

// EnabledReminders returns the subset of reminders that should have a
// live trigger registered.
func (h *Habit) EnabledReminders() []*Reminder {
	var enabled []*Reminder
	for _, r := range h.Reminders {
		if r.IsEnabled {
			enabled = append(enabled, r)
		}
	}
	return enabled
}
