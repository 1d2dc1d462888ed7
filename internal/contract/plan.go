package contract

import "time"

// ScheduledRow is one plan node with its computed window.
type ScheduledRow struct {
	Name  string
	Level string
	Stage string // parent stage name, activities only
	Phase string // parent phase name
	Start time.Time
	End   time.Time
	Days  int
}

// ScheduleResult reports the outcome of scheduling one project plan.
type ScheduleResult struct {
	ProjectID string
	Rows      []ScheduledRow
}

// ImportSummary reports what one plan import created.
type ImportSummary struct {
	ProjectID      string
	ProjectShortID string
	ProjectName    string
	Units          int
	Phases         int
	Stages         int
	Activities     int
	UnitActivities int
	Warnings       []string
}
