package domain

import "time"

// Measurement is a submitted progress report against one leaf activity,
// optionally scoped to a single unit activity. Once reviewed it is terminal
// and never mutated again.
type Measurement struct {
	ID               string
	ActivityID       string
	UnitActivityID   *string
	ProposedProgress float64
	PreviousProgress float64 // snapshot at submission time
	Status           MeasurementStatus
	Notes            string
	ReviewerID       *string
	ReviewedAt       *time.Time
	CreatedAt        time.Time
}

// Reviewable reports whether the measurement still accepts a review.
func (m *Measurement) Reviewable() bool {
	return m.Status == MeasurementPending
}

// Resolve stamps the terminal status and review metadata. Callers must check
// Reviewable first; Resolve does not guard against double review.
func (m *Measurement) Resolve(status MeasurementStatus, reviewerID, notes string, now time.Time) {
	m.Status = status
	m.ReviewerID = &reviewerID
	if notes != "" {
		m.Notes = notes
	}
	m.ReviewedAt = &now
}
