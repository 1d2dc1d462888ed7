package domain

type Level string

const (
	LevelPhase    Level = "PHASE"
	LevelStage    Level = "STAGE"
	LevelActivity Level = "ACTIVITY"
)

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "PENDING"
	ActivityInProgress ActivityStatus = "IN_PROGRESS"
	ActivityCompleted  ActivityStatus = "COMPLETED"
)

type MeasurementStatus string

const (
	MeasurementPending  MeasurementStatus = "PENDING"
	MeasurementApproved MeasurementStatus = "APPROVED"
	MeasurementRejected MeasurementStatus = "REJECTED"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "PLANNING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectPaused     ProjectStatus = "PAUSED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
	ProjectCompleted  ProjectStatus = "COMPLETED"
)

type CalendarMode string

const (
	BusinessDays CalendarMode = "BUSINESS_DAYS"
	CalendarDays CalendarMode = "CALENDAR_DAYS"
)

type ActivityScope string

const (
	ScopeAllUnits      ActivityScope = "ALL_UNITS"
	ScopeSpecificUnits ActivityScope = "SPECIFIC_UNITS"
	ScopeGeneral       ActivityScope = "GENERAL"
)

// ValidCalendarModes is the canonical set of accepted calendar mode strings.
var ValidCalendarModes = map[string]bool{
	"BUSINESS_DAYS": true, "CALENDAR_DAYS": true,
}
