package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusForProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		want     ActivityStatus
	}{
		{"zero is pending", 0, ActivityPending},
		{"negative is pending", -5, ActivityPending},
		{"partial is in progress", 0.5, ActivityInProgress},
		{"almost done is in progress", 99.99, ActivityInProgress},
		{"exactly 100 is completed", 100, ActivityCompleted},
		{"over 100 is completed", 120, ActivityCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForProgress(tt.progress))
		})
	}
}

func TestApplyProgress(t *testing.T) {
	ua := UnitActivity{Progress: 30, Status: ActivityInProgress}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	ua.ApplyProgress(100, now)

	assert.Equal(t, float64(100), ua.Progress)
	assert.Equal(t, ActivityCompleted, ua.Status)
	assert.Equal(t, now, ua.UpdatedAt)
}

func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name     string
		children []ActivityStatus
		want     ActivityStatus
	}{
		{"no children", nil, ActivityPending},
		{"all pending", []ActivityStatus{ActivityPending, ActivityPending}, ActivityPending},
		{"one started", []ActivityStatus{ActivityPending, ActivityInProgress}, ActivityInProgress},
		{"one completed among pending", []ActivityStatus{ActivityCompleted, ActivityPending}, ActivityInProgress},
		{"all completed", []ActivityStatus{ActivityCompleted, ActivityCompleted}, ActivityCompleted},
		{"single completed", []ActivityStatus{ActivityCompleted}, ActivityCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollupStatus(tt.children))
		})
	}
}
