package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
)

var ErrStoreNotConfigured = errors.New("habit service: store not configured")

// NotificationScheduler is the capability the service uses to keep the
// OS trigger set in sync with habit reminders. Scheduling failures
// never block data writes.
type NotificationScheduler interface {
	Schedule(ctx context.Context, habit *domain.Habit) error
	Cancel(ctx context.Context, habit *domain.Habit) error
}

// HabitService is the single mutable coordinator the UI binds to. It
// maintains three published projections: the ordered habit list, the
// heatmap vector, and the selected routine-time bucket. All writes go
// through the store; the projections are caches of the last successful
// state and are only replaced after a write succeeds.
type HabitService struct {
	mu sync.RWMutex

	habitStore domain.HabitStore
	logStore   domain.ActivityLogStore
	scheduler  NotificationScheduler
	engine     *ScoreEngine

	// Now is the wallclock source. Tests substitute it to pin days.
	Now func() time.Time

	habits              []*domain.Habit
	heatmap             []domain.ActivityDay
	selectedRoutineTime string
}

func NewHabitService(scheduler NotificationScheduler, engine *ScoreEngine) *HabitService {
	s := &HabitService{
		scheduler: scheduler,
		engine:    engine,
		Now:       time.Now,
	}
	s.selectedRoutineTime = routineTimeFor(s.Now())
	return s
}

type ReminderInput struct {
	ID              string
	Time            string
	IsEnabled       bool
	IsCustomMessage bool
	CustomMessage   string
}

type AddHabitInput struct {
	Title          string
	Emoji          string
	Category       string
	Unit           string
	Type           string
	GoalValue      float64
	Recurrence     string
	Frequency      []int
	RoutineTime    string
	MotivationText string
	Reminders      []ReminderInput
}

type UpdateHabitInput struct {
	ID             string
	Title          string
	Emoji          string
	Category       string
	Unit           string
	Type           string
	GoalValue      float64
	Recurrence     string
	Frequency      []int
	RoutineTime    string
	MotivationText string
	Reminders      []ReminderInput
}

// SetStore caches the store handles and loads the initial projections.
func (s *HabitService) SetStore(ctx context.Context, habitStore domain.HabitStore, logStore domain.ActivityLogStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.habitStore = habitStore
	s.logStore = logStore

	return s.refreshLocked(ctx)
}

// FetchHabits reloads the habit list from the store and recomputes the
// heatmap. It is the re-synchronization point after any write failure.
func (s *HabitService) FetchHabits(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshLocked(ctx)
}

// refreshLocked reloads both projections. On any store error the
// previous projections are kept untouched. Caller must hold mu.
func (s *HabitService) refreshLocked(ctx context.Context) error {
	if s.habitStore == nil || s.logStore == nil {
		return ErrStoreNotConfigured
	}

	habits, err := s.habitStore.List(ctx)
	if err != nil {
		log.Printf("Habit fetch failed, keeping previous projection: %v", err)
		return err
	}

	now := s.Now()
	from := startOfDay(now).AddDate(0, 0, -(s.engine.Window() - 1))

	logs, err := s.logStore.List(ctx, from, now)
	if err != nil {
		log.Printf("Activity log fetch failed, keeping previous projection: %v", err)
		return err
	}

	s.habits = habits
	s.heatmap = s.engine.Heatmap(habits, logs, now)
	return nil
}

// Habits returns the published ordered habit list.
func (s *HabitService) Habits() []*domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// HeatmapData returns the published heatmap vector, last cell = today.
func (s *HabitService) HeatmapData() []domain.ActivityDay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ActivityDay, len(s.heatmap))
	copy(out, s.heatmap)
	return out
}

func (s *HabitService) SelectedRoutineTime() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedRoutineTime
}

// SelectRoutineTime focuses a time-of-day bucket explicitly.
func (s *HabitService) SelectRoutineTime(routineTime string) error {
	switch routineTime {
	case domain.RoutineMorning, domain.RoutineDay, domain.RoutineEvening:
	default:
		return domain.ErrInvalidRoutineTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedRoutineTime = routineTime
	return nil
}

// DetermineCurrentRoutineTime re-derives the focused bucket from the
// wallclock hour: 5-11 morning, 11-18 day, otherwise evening.
func (s *HabitService) DetermineCurrentRoutineTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedRoutineTime = routineTimeFor(s.Now())
	return s.selectedRoutineTime
}

func routineTimeFor(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 11:
		return domain.RoutineMorning
	case hour >= 11 && hour < 18:
		return domain.RoutineDay
	default:
		return domain.RoutineEvening
	}
}

func (s *HabitService) AddHabit(ctx context.Context, input AddHabitInput) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return nil, ErrStoreNotConfigured
	}

	habit, err := domain.NewHabit(
		input.Title, input.Emoji, input.Category, input.Unit,
		input.Type, input.Recurrence, input.RoutineTime,
		input.MotivationText, input.GoalValue, input.Frequency,
	)
	if err != nil {
		return nil, err
	}

	// New habits go to the end of the list.
	maxOrder := -1
	for _, h := range s.habits {
		if h.SortOrder > maxOrder {
			maxOrder = h.SortOrder
		}
	}
	habit.SortOrder = maxOrder + 1

	reminders, err := buildReminders(habit.ID, input.Reminders)
	if err != nil {
		return nil, err
	}
	habit.Reminders = reminders

	if err := s.habitStore.Create(ctx, habit); err != nil {
		return nil, err
	}

	if err := s.scheduler.Schedule(ctx, habit); err != nil {
		log.Printf("Reminder scheduling failed for %s (habit saved, will retry on next update): %v", habit.Title, err)
	}

	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return nil, ErrStoreNotConfigured
	}

	habit, err := s.habitStore.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	err = habit.Update(
		input.Title, input.Emoji, input.Category, input.Unit,
		input.Type, input.Recurrence, input.RoutineTime,
		input.MotivationText, input.GoalValue, input.Frequency,
	)
	if err != nil {
		return nil, err
	}

	reminders, err := buildReminders(habit.ID, input.Reminders)
	if err != nil {
		return nil, err
	}
	habit.Reminders = reminders

	if err := s.habitStore.Update(ctx, habit); err != nil {
		return nil, err
	}

	if err := s.scheduler.Schedule(ctx, habit); err != nil {
		log.Printf("Reminder rescheduling failed for %s: %v", habit.Title, err)
	}

	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	return habit, nil
}

// buildReminders turns reminder inputs into owned domain reminders.
// Inputs carrying an id keep it, so rescheduling an unchanged habit
// produces an identical trigger set.
func buildReminders(habitID string, inputs []ReminderInput) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	for _, in := range inputs {
		r, err := domain.NewReminder(habitID, in.Time, in.IsEnabled, in.IsCustomMessage, in.CustomMessage)
		if err != nil {
			return nil, err
		}
		if in.ID != "" {
			r.ID = in.ID
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return ErrStoreNotConfigured
	}

	habit, err := s.habitStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Triggers go first so a crash between the two steps leaves an
	// orphan-free transport rather than a dangling trigger.
	if err := s.scheduler.Cancel(ctx, habit); err != nil {
		log.Printf("Trigger cancellation failed for %s: %v", habit.Title, err)
	}

	if err := s.habitStore.Delete(ctx, id); err != nil {
		return err
	}

	return s.refreshLocked(ctx)
}

// UpdateProgress sets a habit's current value for today, appends one
// activity log row carrying the delta this write applied, and
// recomputes the heatmap so today's cell stays consistent. Logging the
// delta rather than the written value keeps a day's log sum equal to
// the day's final progress, which is what past-day scores are built
// from.
func (s *HabitService) UpdateProgress(ctx context.Context, id string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateProgressLocked(ctx, id, value)
}

func (s *HabitService) updateProgressLocked(ctx context.Context, id string, value float64) error {
	if s.habitStore == nil || s.logStore == nil {
		return ErrStoreNotConfigured
	}

	habit, err := s.habitStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	delta := value - habit.CurrentValue

	if err := habit.SetProgress(value); err != nil {
		return err
	}

	if err := s.habitStore.Update(ctx, habit); err != nil {
		return err
	}

	entry := domain.NewActivityLog(habit.ID, s.Now(), delta)
	if err := s.logStore.Append(ctx, entry); err != nil {
		return err
	}

	return s.refreshLocked(ctx)
}

// LogProgress applies a delta on top of the current value.
func (s *HabitService) LogProgress(ctx context.Context, id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return ErrStoreNotConfigured
	}

	habit, err := s.habitStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.updateProgressLocked(ctx, id, habit.CurrentValue+delta)
}

// MoveHabit removes the source habit from the list and re-inserts it at
// the destination's position, then rewrites sort orders as a contiguous
// 0..N-1 permutation in a single store transaction.
func (s *HabitService) MoveHabit(ctx context.Context, srcID, dstID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return ErrStoreNotConfigured
	}

	srcIdx, dstIdx := -1, -1
	for i, h := range s.habits {
		switch h.ID {
		case srcID:
			srcIdx = i
		case dstID:
			dstIdx = i
		}
	}
	if srcIdx == -1 || dstIdx == -1 {
		return domain.ErrHabitNotFound
	}
	if srcIdx == dstIdx {
		return nil
	}

	reordered := make([]*domain.Habit, 0, len(s.habits))
	reordered = append(reordered, s.habits[:srcIdx]...)
	reordered = append(reordered, s.habits[srcIdx+1:]...)

	if dstIdx > len(reordered) {
		dstIdx = len(reordered)
	}
	reordered = append(reordered[:dstIdx], append([]*domain.Habit{s.habits[srcIdx]}, reordered[dstIdx:]...)...)

	orderedIDs := make([]string, len(reordered))
	for i, h := range reordered {
		orderedIDs[i] = h.ID
	}

	if err := s.habitStore.Reorder(ctx, orderedIDs); err != nil {
		return err
	}

	return s.refreshLocked(ctx)
}

// VisibleHabits filters the published list for the dashboard. Habits
// must be due today; then the "All" category applies the selected
// time-of-day bucket, while a concrete category overrides it.
func (s *HabitService) VisibleHabits(category string) []*domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.Now()

	var visible []*domain.Habit
	for _, h := range s.habits {
		if !h.IsActiveOn(today) {
			continue
		}

		if category == "All" {
			if h.RoutineTime == s.selectedRoutineTime {
				visible = append(visible, h)
			}
		} else if h.Category == category {
			visible = append(visible, h)
		}
	}

	return visible
}

// ResetDailyProgress zeroes every habit's current value at the day
// boundary. No activity log rows are written: zeroing is not negative
// progress, and prior days stay derivable from the log stream. The
// heatmap is recomputed afterwards so today's cell never shows the
// previous day's completions.
func (s *HabitService) ResetDailyProgress(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitStore == nil {
		return ErrStoreNotConfigured
	}

	if err := s.habitStore.ResetCurrentValues(ctx); err != nil {
		return err
	}

	return s.refreshLocked(ctx)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
