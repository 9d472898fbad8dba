package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Julian1612/trackerApp/internal/adapters/repository"
	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
	"github.com/Julian1612/trackerApp/internal/core/workers"
	"github.com/Julian1612/trackerApp/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResetter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingResetter) ResetDailyProgress(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls++
	return nil
}

func (r *countingResetter) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestDayWatcher_Check(t *testing.T) {
	ctx := context.Background()
	noon := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	t.Run("First run resets and records the day", func(t *testing.T) {
		state := repository.NewMemoryStateStore()
		resetter := &countingResetter{}

		watcher := workers.NewDayWatcher(state, resetter, time.Second)
		watcher.Now = func() time.Time { return noon }

		require.NoError(t, watcher.Check(ctx))
		assert.Equal(t, 1, resetter.Calls())

		last, err := state.LastReset(ctx)
		require.NoError(t, err)
		assert.Equal(t, noon, last)
	})

	t.Run("Same day checks are no-ops", func(t *testing.T) {
		state := repository.NewMemoryStateStore()
		resetter := &countingResetter{}

		watcher := workers.NewDayWatcher(state, resetter, time.Second)
		watcher.Now = func() time.Time { return noon }

		require.NoError(t, watcher.Check(ctx))
		require.NoError(t, watcher.Check(ctx))
		require.NoError(t, watcher.Check(ctx))

		assert.Equal(t, 1, resetter.Calls(), "At most one reset per calendar day")
	})

	t.Run("Day rollover resets again", func(t *testing.T) {
		state := repository.NewMemoryStateStore()
		resetter := &countingResetter{}

		watcher := workers.NewDayWatcher(state, resetter, time.Second)
		watcher.Now = func() time.Time { return noon }
		require.NoError(t, watcher.Check(ctx))

		// Just past the next midnight.
		watcher.Now = func() time.Time {
			return time.Date(2024, 1, 3, 0, 0, 1, 0, time.UTC)
		}
		require.NoError(t, watcher.Check(ctx))

		assert.Equal(t, 2, resetter.Calls())

		last, err := state.LastReset(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, last.Day())
	})

	t.Run("Marker stored in another zone still matches the local day", func(t *testing.T) {
		state := repository.NewMemoryStateStore()
		resetter := &countingResetter{}

		berlin := time.FixedZone("CET", 60*60)
		local := time.Date(2024, 6, 15, 1, 30, 0, 0, berlin)

		// A store round-trip typically hands back UTC.
		require.NoError(t, state.SetLastReset(ctx, local.UTC()))

		watcher := workers.NewDayWatcher(state, resetter, time.Second)
		watcher.Now = func() time.Time {
			return time.Date(2024, 6, 15, 23, 0, 0, 0, berlin)
		}

		require.NoError(t, watcher.Check(ctx))
		assert.Equal(t, 0, resetter.Calls(), "Same local day despite the UTC marker")
	})

	t.Run("Failed reset keeps the marker so the next check retries", func(t *testing.T) {
		state := repository.NewMemoryStateStore()
		resetter := &countingResetter{err: errors.New("store offline")}

		watcher := workers.NewDayWatcher(state, resetter, time.Second)
		watcher.Now = func() time.Time { return noon }

		require.Error(t, watcher.Check(ctx))

		last, err := state.LastReset(ctx)
		require.NoError(t, err)
		assert.True(t, last.IsZero(), "Marker must not advance past a failed reset")

		resetter.mu.Lock()
		resetter.err = nil
		resetter.mu.Unlock()

		require.NoError(t, watcher.Check(ctx))
		assert.Equal(t, 1, resetter.Calls())
	})
}

// Rollover with a real service: the reset zeroes today's value while
// yesterday's heatmap cell stays derivable from the activity logs.
func TestDayWatcher_RolloverKeepsHistory(t *testing.T) {
	ctx := context.Background()

	day1 := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	svc := services.NewHabitService(
		notification.NewScheduler(notification.NewMemoryTransport()),
		services.NewScoreEngine(7),
	)
	svc.Now = func() time.Time { return day1 }
	require.NoError(t, svc.SetStore(ctx, repository.NewMemoryHabitStore(), repository.NewMemoryActivityLogStore()))

	habit, err := svc.AddHabit(ctx, services.AddHabitInput{
		Title: "Stretch", Emoji: "🤸", Category: "Health",
		Type: domain.HabitTypeCheckmark, GoalValue: 1,
		Recurrence: domain.RecurrenceDaily, RoutineTime: domain.RoutineMorning,
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateProgress(ctx, habit.ID, 1))

	heatmap := svc.HeatmapData()
	require.Equal(t, 1.0, heatmap[len(heatmap)-1].Score)

	// Cross midnight.
	svc.Now = func() time.Time { return day2 }

	state := repository.NewMemoryStateStore()
	require.NoError(t, state.SetLastReset(ctx, day1))

	watcher := workers.NewDayWatcher(state, svc, time.Second)
	watcher.Now = func() time.Time { return day2 }
	require.NoError(t, watcher.Check(ctx))

	habits := svc.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, 0.0, habits[0].CurrentValue)

	heatmap = svc.HeatmapData()
	assert.Equal(t, 0.0, heatmap[len(heatmap)-1].Score, "New day starts empty")
	assert.Equal(t, 1.0, heatmap[len(heatmap)-2].Score, "Yesterday's completion survives the reset")

	last, err := state.LastReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, day2, last)
}

func TestDayWatcher_Notify(t *testing.T) {
	state := repository.NewMemoryStateStore()
	resetter := &countingResetter{}

	watcher := workers.NewDayWatcher(state, resetter, time.Hour)

	// Never blocks, even when no loop is draining the channel.
	for i := 0; i < 10; i++ {
		watcher.Notify()
	}
}

func TestDayWatcher_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := repository.NewMemoryStateStore()
	resetter := &countingResetter{}

	watcher := workers.NewDayWatcher(state, resetter, 10*time.Millisecond)
	watcher.Start(ctx)

	// The initial check fires without waiting for a tick.
	assert.Eventually(t, func() bool {
		return resetter.Calls() == 1
	}, time.Second, 5*time.Millisecond)

	// Ticks on the same day stay quiet.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, resetter.Calls())

	cancel()
}
