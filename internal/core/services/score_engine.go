package services

import (
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
)

// ScoreEngine computes the heatmap vector: one completion score in
// [0,1] per trailing day. It is a pure function of its inputs and
// writes nothing.
type ScoreEngine struct {
	window int
}

func NewScoreEngine(window int) *ScoreEngine {
	if window <= 0 {
		window = domain.HeatmapWindow
	}
	return &ScoreEngine{window: window}
}

func (e *ScoreEngine) Window() int {
	return e.window
}

const dayKeyLayout = "2006-01-02"

// Heatmap produces a window-length vector of ActivityDay. Index 0 is
// (now - window + 1) days ago, the last index is today. For past days a
// habit's effective value is the sum of its same-local-day log values;
// for today the live currentValue may lead the persisted log stream
// between writes, so the larger of the two wins.
func (e *ScoreEngine) Heatmap(habits []*domain.Habit, logs []*domain.ActivityLog, now time.Time) []domain.ActivityDay {
	sums := make(map[string]map[string]float64)
	for _, l := range logs {
		dayKey := l.Date.In(now.Location()).Format(dayKeyLayout)
		if _, exists := sums[l.HabitID]; !exists {
			sums[l.HabitID] = make(map[string]float64)
		}
		sums[l.HabitID][dayKey] += l.Value
	}

	todayKey := now.Format(dayKeyLayout)

	days := make([]domain.ActivityDay, 0, e.window)

	day := now.AddDate(0, 0, -(e.window - 1))
	for !day.After(now) {
		dayKey := day.Format(dayKeyLayout)

		days = append(days, domain.ActivityDay{
			Date:  day,
			Score: e.dayScore(habits, sums, day, dayKey, dayKey == todayKey),
		})

		day = day.AddDate(0, 0, 1)
	}

	return days
}

func (e *ScoreEngine) dayScore(habits []*domain.Habit, sums map[string]map[string]float64, day time.Time, dayKey string, isToday bool) float64 {
	active := 0
	completed := 0

	for _, h := range habits {
		if !h.IsActiveOn(day) {
			continue
		}
		active++

		effective := sums[h.ID][dayKey]
		if isToday && h.CurrentValue > effective {
			effective = h.CurrentValue
		}

		if effective >= h.GoalValue {
			completed++
		}
	}

	if active == 0 {
		return 0
	}

	score := float64(completed) / float64(active)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
