package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// PlanSchema is the top-level JSON structure for plan import.
type PlanSchema struct {
	Project ProjectImport `json:"project" validate:"required"`
	Units   []UnitImport  `json:"units,omitempty" validate:"dive"`
	Phases  []PhaseImport `json:"phases" validate:"required,min=1,dive"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID      string   `json:"short_id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	StartDate    string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	CalendarMode string   `json:"calendar_mode,omitempty" validate:"omitempty,oneof=BUSINESS_DAYS CALENDAR_DAYS"`
	Holidays     []string `json:"holidays,omitempty" validate:"dive,datetime=2006-01-02"`
}

// UnitImport defines one repeatable unit (house, floor, block).
type UnitImport struct {
	Name  string `json:"name" validate:"required"`
	Order int    `json:"order"`
}

// PhaseImport defines a top-level phase. Percentage is the phase's share of
// the project window; the last phase absorbs rounding drift at schedule time.
type PhaseImport struct {
	Name       string        `json:"name" validate:"required"`
	Order      int           `json:"order"`
	Percentage float64       `json:"percentage" validate:"gt=0,lte=100"`
	Color      *string       `json:"color,omitempty"`
	Stages     []StageImport `json:"stages,omitempty" validate:"dive"`
}

// StageImport defines a stage grouping inside a phase.
type StageImport struct {
	Name       string           `json:"name" validate:"required"`
	Order      int              `json:"order"`
	Activities []ActivityImport `json:"activities,omitempty" validate:"dive"`
}

// ActivityImport defines a leaf activity. DependsOn names activities of the
// same phase; duration_days pins the duration instead of deriving it from
// weight.
type ActivityImport struct {
	Name         string   `json:"name" validate:"required"`
	Order        int      `json:"order"`
	Weight       float64  `json:"weight,omitempty" validate:"omitempty,gt=0"`
	DurationDays *int     `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	DependsOn    []string `json:"depends_on,omitempty"`
	Scope        string   `json:"scope,omitempty" validate:"omitempty,oneof=ALL_UNITS SPECIFIC_UNITS GENERAL"`
	Units        []string `json:"units,omitempty"`
	Color        *string  `json:"color,omitempty"`
}

// LoadPlanSchema reads and parses a plan import JSON file.
func LoadPlanSchema(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema PlanSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
