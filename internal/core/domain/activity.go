package domain

import "time"

// HeatmapWindow is the number of trailing days the dashboard renders.
const HeatmapWindow = 100

// ActivityDay is one cell of the heatmap: a per-day completion score
// in [0,1]. The last cell of a heatmap vector is today.
type ActivityDay struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// Scores strips the dates off a heatmap vector.
func Scores(days []ActivityDay) []float64 {
	scores := make([]float64, len(days))
	for i, d := range days {
		scores[i] = d.Score
	}
	return scores
}
