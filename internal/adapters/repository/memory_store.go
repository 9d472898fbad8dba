package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
)

// MemoryHabitStore keeps habits in memory. It backs tests and
// daemonless runs. Reads and writes exchange deep copies so callers
// can only change stored state through Update, never by mutating a
// habit they already hold.
type MemoryHabitStore struct {
	mu    sync.RWMutex
	store map[string]*domain.Habit
}

func NewMemoryHabitStore() *MemoryHabitStore {
	return &MemoryHabitStore{
		store: make(map[string]*domain.Habit),
	}
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	clone := *h
	clone.Frequency = append([]int(nil), h.Frequency...)
	clone.Reminders = nil
	for _, r := range h.Reminders {
		rc := *r
		clone.Reminders = append(clone.Reminders, &rc)
	}
	return &clone
}

func (s *MemoryHabitStore) Create(ctx context.Context, habit *domain.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (s *MemoryHabitStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habit, ok := s.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (s *MemoryHabitStore) List(ctx context.Context) ([]*domain.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range s.store {
		habits = append(habits, cloneHabit(h))
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	return habits, nil
}

func (s *MemoryHabitStore) Update(ctx context.Context, habit *domain.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	s.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (s *MemoryHabitStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(s.store, id)
	return nil
}

func (s *MemoryHabitStore) Reorder(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the full set before touching anything: the rewrite is
	// all-or-nothing.
	for _, id := range orderedIDs {
		if _, ok := s.store[id]; !ok {
			return domain.ErrHabitNotFound
		}
	}

	for i, id := range orderedIDs {
		s.store[id].SortOrder = i
		s.store[id].UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *MemoryHabitStore) ResetCurrentValues(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.store {
		h.CurrentValue = 0
		h.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// MemoryActivityLogStore keeps the append-only log stream in memory.
type MemoryActivityLogStore struct {
	mu   sync.RWMutex
	logs []*domain.ActivityLog
}

func NewMemoryActivityLogStore() *MemoryActivityLogStore {
	return &MemoryActivityLogStore{}
}

func (s *MemoryActivityLogStore) Append(ctx context.Context, entry *domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.logs {
		if l.ID == entry.ID {
			return domain.ErrLogConflict
		}
	}

	clone := *entry
	s.logs = append(s.logs, &clone)
	return nil
}

func (s *MemoryActivityLogStore) List(ctx context.Context, from, to time.Time) ([]*domain.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ActivityLog
	for _, l := range s.logs {
		if l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryActivityLogStore) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ActivityLog
	for _, l := range s.logs {
		if l.HabitID != habitID || l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, nil
}

// MemoryStateStore holds the last-reset marker in memory.
type MemoryStateStore struct {
	mu        sync.RWMutex
	lastReset time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) LastReset(ctx context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReset, nil
}

func (s *MemoryStateStore) SetLastReset(ctx context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReset = t
	return nil
}
