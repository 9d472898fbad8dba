package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.HabitStore = (*CachedHabitStore)(nil)

const habitListCacheKey = "habits:list"

// CachedHabitStore is a read-through cache over the habit list. Any
// mutation invalidates the cached list; cache failures degrade to the
// underlying store and are only logged.
type CachedHabitStore struct {
	next  domain.HabitStore
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedHabitStore(next domain.HabitStore, cache *redis.Client) *CachedHabitStore {
	return &CachedHabitStore{
		next:  next,
		cache: cache,
		ttl:   30 * time.Minute,
	}
}

func (s *CachedHabitStore) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, habitListCacheKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate habit list: %v", err)
	}
}

func (s *CachedHabitStore) List(ctx context.Context) ([]*domain.Habit, error) {
	val, err := s.cache.Get(ctx, habitListCacheKey).Result()
	if err == nil {
		var habits []*domain.Habit
		if err := json.Unmarshal([]byte(val), &habits); err == nil {
			return habits, nil
		}

		log.Printf("[CACHE] Corrupted habit list, cleaning up key")
		s.cache.Del(ctx, habitListCacheKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	habits, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := s.cache.Set(ctx, habitListCacheKey, data, s.ttl).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return habits, nil
}

func (s *CachedHabitStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return s.next.GetByID(ctx, id)
}

func (s *CachedHabitStore) Create(ctx context.Context, habit *domain.Habit) error {
	if err := s.next.Create(ctx, habit); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedHabitStore) Update(ctx context.Context, habit *domain.Habit) error {
	if err := s.next.Update(ctx, habit); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedHabitStore) Delete(ctx context.Context, id string) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedHabitStore) Reorder(ctx context.Context, orderedIDs []string) error {
	if err := s.next.Reorder(ctx, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedHabitStore) ResetCurrentValues(ctx context.Context) error {
	if err := s.next.ResetCurrentValues(ctx); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
