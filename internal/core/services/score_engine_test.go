package services_test

import (
	"testing"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEngine_Heatmap(t *testing.T) {
	// 2024-01-08 is a Monday.
	now := time.Date(2024, 1, 8, 15, 0, 0, 0, time.UTC)

	t.Run("Empty state: window of zeros", func(t *testing.T) {
		engine := services.NewScoreEngine(100)

		days := engine.Heatmap(nil, nil, now)

		require.Len(t, days, 100)
		for _, d := range days {
			assert.Equal(t, 0.0, d.Score)
		}
		assert.Equal(t, now, days[len(days)-1].Date, "Last cell must be today")
	})

	t.Run("Default window kicks in for invalid sizes", func(t *testing.T) {
		engine := services.NewScoreEngine(0)
		assert.Equal(t, domain.HeatmapWindow, engine.Window())
	})

	t.Run("Past days are scored from logs only", func(t *testing.T) {
		engine := services.NewScoreEngine(7)

		habits := []*domain.Habit{
			{ID: "h1", Recurrence: domain.RecurrenceDaily, GoalValue: 2},
		}
		logs := []*domain.ActivityLog{
			{ID: "l1", HabitID: "h1", Date: now.AddDate(0, 0, -1), Value: 1},
			{ID: "l2", HabitID: "h1", Date: now.AddDate(0, 0, -1).Add(2 * time.Hour), Value: 1},
			{ID: "l3", HabitID: "h1", Date: now.AddDate(0, 0, -3), Value: 1},
		}

		days := engine.Heatmap(habits, logs, now)

		require.Len(t, days, 7)
		assert.Equal(t, 1.0, days[5].Score, "Two logs summing to the goal complete yesterday")
		assert.Equal(t, 0.0, days[3].Score, "A single log below the goal does not")
	})

	t.Run("Today takes the max of live value and log sum", func(t *testing.T) {
		engine := services.NewScoreEngine(3)

		habits := []*domain.Habit{
			{ID: "h1", Recurrence: domain.RecurrenceDaily, GoalValue: 2, CurrentValue: 2},
		}

		days := engine.Heatmap(habits, nil, now)
		assert.Equal(t, 1.0, days[2].Score, "Live value may lead the persisted log stream")

		habits[0].CurrentValue = 0
		logs := []*domain.ActivityLog{
			{ID: "l1", HabitID: "h1", Date: now.Add(-time.Hour), Value: 3},
		}
		days = engine.Heatmap(habits, logs, now)
		assert.Equal(t, 1.0, days[2].Score, "Log sum may lead the live value too")
	})

	t.Run("Partial completion scores the completed fraction", func(t *testing.T) {
		engine := services.NewScoreEngine(1)

		habits := []*domain.Habit{
			{ID: "water", Recurrence: domain.RecurrenceDaily, GoalValue: 2},
			{ID: "zen", Recurrence: domain.RecurrenceDaily, GoalValue: 1, CurrentValue: 1},
		}

		days := engine.Heatmap(habits, nil, now)
		assert.Equal(t, 0.5, days[0].Score)
	})

	t.Run("Weekly habits only count on their weekdays", func(t *testing.T) {
		engine := services.NewScoreEngine(2)

		// Active exactly on Mondays (index 2).
		habits := []*domain.Habit{
			{ID: "h1", Recurrence: domain.RecurrenceWeekly, Frequency: []int{2}, GoalValue: 1, CurrentValue: 1},
		}

		days := engine.Heatmap(habits, nil, now)

		require.Len(t, days, 2)
		assert.Equal(t, 0.0, days[0].Score, "Sunday has no active habits, score is 0")
		assert.Equal(t, 1.0, days[1].Score, "Monday counts the completed weekly habit")
	})

	t.Run("Scores stay inside [0,1]", func(t *testing.T) {
		engine := services.NewScoreEngine(5)

		habits := []*domain.Habit{
			{ID: "h1", Recurrence: domain.RecurrenceDaily, GoalValue: 1, CurrentValue: 99},
		}
		logs := []*domain.ActivityLog{
			{ID: "l1", HabitID: "h1", Date: now.AddDate(0, 0, -2), Value: 50},
		}

		for _, d := range engine.Heatmap(habits, logs, now) {
			assert.GreaterOrEqual(t, d.Score, 0.0)
			assert.LessOrEqual(t, d.Score, 1.0)
		}
	})

	t.Run("Inputs are not mutated", func(t *testing.T) {
		engine := services.NewScoreEngine(3)

		habit := &domain.Habit{ID: "h1", Recurrence: domain.RecurrenceDaily, GoalValue: 2, CurrentValue: 1}
		logEntry := &domain.ActivityLog{ID: "l1", HabitID: "h1", Date: now, Value: 1}

		engine.Heatmap([]*domain.Habit{habit}, []*domain.ActivityLog{logEntry}, now)

		assert.Equal(t, 1.0, habit.CurrentValue)
		assert.Equal(t, 1.0, logEntry.Value)
	})
}
