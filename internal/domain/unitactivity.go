package domain

import "time"

// UnitActivity joins one leaf activity with one project unit (nil UnitID for
// GENERAL activities). Its progress is mutated only by measurement approval.
type UnitActivity struct {
	ID         string
	ActivityID string
	UnitID     *string
	Progress   float64 // 0-100
	Status     ActivityStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StatusForProgress derives a status from a 0-100 progress value:
// >= 100 is COMPLETED, > 0 is IN_PROGRESS, anything else PENDING.
func StatusForProgress(progress float64) ActivityStatus {
	switch {
	case progress >= 100:
		return ActivityCompleted
	case progress > 0:
		return ActivityInProgress
	default:
		return ActivityPending
	}
}

// ApplyProgress sets the progress value and re-derives the status.
func (ua *UnitActivity) ApplyProgress(progress float64, now time.Time) {
	ua.Progress = progress
	ua.Status = StatusForProgress(progress)
	ua.UpdatedAt = now
}

// RollupStatus combines child statuses: COMPLETED when every child is
// COMPLETED (and there is at least one), IN_PROGRESS when any child has
// started, PENDING otherwise.
func RollupStatus(children []ActivityStatus) ActivityStatus {
	if len(children) == 0 {
		return ActivityPending
	}
	completed := 0
	started := false
	for _, s := range children {
		switch s {
		case ActivityCompleted:
			completed++
			started = true
		case ActivityInProgress:
			started = true
		}
	}
	if completed == len(children) {
		return ActivityCompleted
	}
	if started {
		return ActivityInProgress
	}
	return ActivityPending
}
