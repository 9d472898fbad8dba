package domain_test

import (
	"testing"
	"time"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityLog(t *testing.T) {
	now := time.Now()

	l := domain.NewActivityLog("habit-1", now, 2.5)

	require.NotNil(t, l)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "habit-1", l.HabitID)
	assert.Equal(t, now, l.Date)
	assert.Equal(t, 2.5, l.Value)
	assert.NoError(t, l.Validate())
}

func TestActivityLog_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		log     *domain.ActivityLog
		wantErr bool
	}{
		{"Valid", &domain.ActivityLog{ID: "l1", HabitID: "h1", Date: now, Value: 1}, false},
		{"Zero value is valid", &domain.ActivityLog{ID: "l2", HabitID: "h1", Date: now, Value: 0}, false},
		{"Missing habit id", &domain.ActivityLog{ID: "l3", Date: now, Value: 1}, true},
		{"Missing date", &domain.ActivityLog{ID: "l4", HabitID: "h1", Value: 1}, true},
		{"Negative delta is valid", &domain.ActivityLog{ID: "l5", HabitID: "h1", Date: now, Value: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
