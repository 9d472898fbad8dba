package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeAt(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
	}
}

func TestDashboardHandler_GetHeatmap(t *testing.T) {
	router, svc := setupHandler(t)

	habit, err := svc.AddHabit(context.Background(), services.AddHabitInput{
		Title: "Zen", Emoji: "🧘", Category: "Mindset",
		Type: domain.HabitTypeCheckmark, GoalValue: 1,
		Recurrence: domain.RecurrenceDaily, RoutineTime: domain.RoutineMorning,
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateProgress(context.Background(), habit.ID, 1))

	w := doJSON(router, http.MethodGet, "/heatmap", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Window int                  `json:"window"`
		Days   []domain.ActivityDay `json:"days"`
		Scores []float64            `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 100, resp.Window)
	require.Len(t, resp.Days, 100)
	require.Len(t, resp.Scores, 100)
	assert.Equal(t, 1.0, resp.Scores[len(resp.Scores)-1], "Last cell is today")
	assert.Equal(t, 0.0, resp.Scores[0])
}

func TestDashboardHandler_RoutineTime(t *testing.T) {
	router, svc := setupHandler(t)

	t.Run("Get reflects the current selection", func(t *testing.T) {
		require.NoError(t, svc.SelectRoutineTime(domain.RoutineEvening))

		w := doJSON(router, http.MethodGet, "/routine-time", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), domain.RoutineEvening)
	})

	t.Run("Put selects a bucket", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/routine-time", selectRoutineTimeRequest{RoutineTime: domain.RoutineDay})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.RoutineDay, svc.SelectedRoutineTime())
	})

	t.Run("Put rejects unknown buckets", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/routine-time", selectRoutineTimeRequest{RoutineTime: "midnight"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Auto re-derives from the wallclock", func(t *testing.T) {
		svc.Now = timeAt(9)
		w := doJSON(router, http.MethodPost, "/routine-time/auto", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), domain.RoutineMorning)

		svc.Now = timeAt(14)
		w = doJSON(router, http.MethodPost, "/routine-time/auto", nil)
		assert.Contains(t, w.Body.String(), domain.RoutineDay)
	})
}
