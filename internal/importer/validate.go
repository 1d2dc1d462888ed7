package importer

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidatePlanSchema checks the plan schema for errors before conversion.
// Returns a slice of all validation errors found. Dependency cycles are NOT
// errors here; the scheduler degrades to declaration order, so cycles are
// surfaced separately via DependencyCycleWarnings.
func ValidatePlanSchema(schema *PlanSchema) []error {
	var errs []error

	if err := structValidator.Struct(schema); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Errorf("%s: failed %q validation", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	errs = append(errs, validateDates(&schema.Project)...)
	errs = append(errs, validateUnits(schema.Units)...)
	errs = append(errs, validatePhases(schema)...)

	return errs
}

func validateDates(p *ProjectImport) []error {
	start, startErr := time.Parse("2006-01-02", p.StartDate)
	end, endErr := time.Parse("2006-01-02", p.EndDate)
	if startErr != nil || endErr != nil {
		// Format errors already reported by the struct validator.
		return nil
	}
	if end.Before(start) {
		return []error{fmt.Errorf("project.end_date %q must not precede start_date %q", p.EndDate, p.StartDate)}
	}
	return nil
}

func validateUnits(units []UnitImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, u := range units {
		if u.Name == "" {
			continue
		}
		if seen[u.Name] {
			errs = append(errs, fmt.Errorf("units[%d]: duplicate unit name %q", i, u.Name))
		}
		seen[u.Name] = true
	}
	return errs
}

func validatePhases(schema *PlanSchema) []error {
	var errs []error

	unitNames := make(map[string]bool)
	for _, u := range schema.Units {
		unitNames[u.Name] = true
	}

	phaseNames := make(map[string]bool)
	activityNames := make(map[string]bool)
	for pi, phase := range schema.Phases {
		prefix := fmt.Sprintf("phases[%d]", pi)

		if phase.Name != "" {
			if phaseNames[phase.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate phase name %q", prefix, phase.Name))
			}
			phaseNames[phase.Name] = true
		}

		// Dependency refs are phase-scope: collect all activity names of
		// this phase first, across its stages.
		phaseActivities := make(map[string]bool)
		for _, stage := range phase.Stages {
			for _, a := range stage.Activities {
				phaseActivities[a.Name] = true
			}
		}

		stageNames := make(map[string]bool)
		for si, stage := range phase.Stages {
			stagePrefix := fmt.Sprintf("%s.stages[%d]", prefix, si)

			if stage.Name != "" {
				if stageNames[stage.Name] {
					errs = append(errs, fmt.Errorf("%s: duplicate stage name %q", stagePrefix, stage.Name))
				}
				stageNames[stage.Name] = true
			}

			for ai, a := range stage.Activities {
				actPrefix := fmt.Sprintf("%s.activities[%d]", stagePrefix, ai)

				if a.Name != "" {
					if activityNames[a.Name] {
						errs = append(errs, fmt.Errorf("%s: duplicate activity name %q", actPrefix, a.Name))
					}
					activityNames[a.Name] = true
				}

				for _, dep := range a.DependsOn {
					if dep == a.Name {
						errs = append(errs, fmt.Errorf("%s: self-dependency %q", actPrefix, dep))
					} else if !phaseActivities[dep] {
						errs = append(errs, fmt.Errorf("%s.depends_on: %q does not name an activity of phase %q", actPrefix, dep, phase.Name))
					}
				}

				errs = append(errs, validateActivityScope(actPrefix, &a, unitNames)...)
			}
		}
	}

	return errs
}

func validateActivityScope(prefix string, a *ActivityImport, unitNames map[string]bool) []error {
	var errs []error

	switch a.Scope {
	case "SPECIFIC_UNITS":
		if len(a.Units) == 0 {
			errs = append(errs, fmt.Errorf("%s: scope SPECIFIC_UNITS requires a non-empty units list", prefix))
		}
		for _, name := range a.Units {
			if !unitNames[name] {
				errs = append(errs, fmt.Errorf("%s.units: %q does not name a project unit", prefix, name))
			}
		}
	default:
		if len(a.Units) > 0 {
			errs = append(errs, fmt.Errorf("%s: units list is only valid with scope SPECIFIC_UNITS", prefix))
		}
	}

	return errs
}

// DependencyCycleWarnings reports dependency cycles per phase. A cycle does
// not block import: scheduling falls back to declaration order for the
// affected activities, so callers print these as warnings.
func DependencyCycleWarnings(schema *PlanSchema) []string {
	var warnings []string

	for _, phase := range schema.Phases {
		graph := make(map[string][]string)
		var names []string
		for _, stage := range phase.Stages {
			for _, a := range stage.Activities {
				names = append(names, a.Name)
				graph[a.Name] = append(graph[a.Name], a.DependsOn...)
			}
		}

		const (
			white = 0
			gray  = 1
			black = 2
		)
		color := make(map[string]int)

		var visit func(name string) bool
		visit = func(name string) bool {
			color[name] = gray
			for _, dep := range graph[name] {
				if _, known := graph[dep]; !known {
					continue
				}
				if color[dep] == gray {
					warnings = append(warnings,
						fmt.Sprintf("phase %q: dependency cycle involving %q and %q; affected activities will be scheduled in declaration order", phase.Name, name, dep))
					return true
				}
				if color[dep] == white && visit(dep) {
					return true
				}
			}
			color[name] = black
			return false
		}

		for _, name := range names {
			if color[name] == white {
				if visit(name) {
					break
				}
			}
		}
	}

	return warnings
}
