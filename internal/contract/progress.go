package contract

import "time"

// ProgressRow is the aggregated progress of one plan node.
type ProgressRow struct {
	ID           string
	ParentID     *string
	Name         string
	Level        string
	Status       string
	Progress     float64 // 0-100, rounded to 2 decimals
	PlannedStart *time.Time
	PlannedEnd   *time.Time
}

// ProgressReport is the full progress picture of one project.
type ProgressReport struct {
	ProjectID      string
	ProjectShortID string
	ProjectName    string
	ProjectStatus  string
	Overall        float64
	Rows           []ProgressRow
}
