package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueroa/sitework/internal/domain"
)

// ConvertedPlan carries every domain object materialized from one import
// file, ready for persistence in a single transaction.
type ConvertedPlan struct {
	Project        *domain.Project
	Units          []*domain.Unit
	Activities     []*domain.ActivityNode
	UnitActivities []*domain.UnitActivity
}

// Convert transforms a validated PlanSchema into domain objects.
// Call ValidatePlanSchema first; Convert assumes the schema is valid.
func Convert(schema *PlanSchema) (*ConvertedPlan, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse("2006-01-02", schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", schema.Project.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}

	mode := domain.CalendarMode(schema.Project.CalendarMode)
	if mode == "" {
		mode = domain.BusinessDays
	}

	var holidays []time.Time
	for _, h := range schema.Project.Holidays {
		day, err := time.Parse("2006-01-02", h)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday %q: %w", h, err)
		}
		holidays = append(holidays, day)
	}

	project := &domain.Project{
		ID:           uuid.New().String(),
		ShortID:      strings.ToUpper(schema.Project.ShortID),
		Name:         schema.Project.Name,
		StartDate:    startDate,
		EndDate:      endDate,
		CalendarMode: mode,
		Status:       domain.ProjectPlanning,
		Holidays:     holidays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	unitIDs := make(map[string]string) // unit name -> UUID
	units := make([]*domain.Unit, 0, len(schema.Units))
	for _, u := range schema.Units {
		unit := &domain.Unit{
			ID:         uuid.New().String(),
			ProjectID:  project.ID,
			Name:       u.Name,
			OrderIndex: u.Order,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		unitIDs[u.Name] = unit.ID
		units = append(units, unit)
	}

	plan := &ConvertedPlan{Project: project, Units: units}

	for _, phase := range schema.Phases {
		phaseNode := &domain.ActivityNode{
			ID:         uuid.New().String(),
			ProjectID:  project.ID,
			Name:       phase.Name,
			Level:      domain.LevelPhase,
			OrderIndex: phase.Order,
			Weight:     phase.Percentage,
			Scope:      domain.ScopeGeneral,
			Color:      phase.Color,
			Status:     domain.ActivityPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		plan.Activities = append(plan.Activities, phaseNode)

		for _, stage := range phase.Stages {
			stageNode := &domain.ActivityNode{
				ID:         uuid.New().String(),
				ProjectID:  project.ID,
				ParentID:   &phaseNode.ID,
				Name:       stage.Name,
				Level:      domain.LevelStage,
				OrderIndex: stage.Order,
				Weight:     1,
				Scope:      domain.ScopeGeneral,
				Status:     domain.ActivityPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			plan.Activities = append(plan.Activities, stageNode)

			for _, a := range stage.Activities {
				node, uas := convertActivity(&a, project.ID, stageNode.ID, unitIDs, now)
				plan.Activities = append(plan.Activities, node)
				plan.UnitActivities = append(plan.UnitActivities, uas...)
			}
		}
	}

	return plan, nil
}

func convertActivity(a *ActivityImport, projectID, stageID string, unitIDs map[string]string, now time.Time) (*domain.ActivityNode, []*domain.UnitActivity) {
	weight := a.Weight
	if weight == 0 {
		weight = 1
	}
	scope := domain.ActivityScope(a.Scope)
	if scope == "" {
		scope = domain.ScopeGeneral
	}

	node := &domain.ActivityNode{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		ParentID:     &stageID,
		Name:         a.Name,
		Level:        domain.LevelActivity,
		OrderIndex:   a.Order,
		Weight:       weight,
		DurationDays: a.DurationDays,
		DependsOn:    a.DependsOn,
		Scope:        scope,
		Color:        a.Color,
		Status:       domain.ActivityPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return node, buildUnitActivities(node, a.Units, unitIDs, now)
}

// buildUnitActivities fans one leaf activity out into its tracking rows:
// one row per unit for ALL_UNITS, one per named unit for SPECIFIC_UNITS,
// a single unscoped row for GENERAL. An ALL_UNITS activity in a project
// without units degrades to a single unscoped row.
func buildUnitActivities(node *domain.ActivityNode, unitNames []string, unitIDs map[string]string, now time.Time) []*domain.UnitActivity {
	newRow := func(unitID *string) *domain.UnitActivity {
		return &domain.UnitActivity{
			ID:         uuid.New().String(),
			ActivityID: node.ID,
			UnitID:     unitID,
			Status:     domain.ActivityPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	switch node.Scope {
	case domain.ScopeAllUnits:
		if len(unitIDs) == 0 {
			return []*domain.UnitActivity{newRow(nil)}
		}
		rows := make([]*domain.UnitActivity, 0, len(unitIDs))
		for _, id := range sortedUnitIDs(unitIDs) {
			uid := id
			rows = append(rows, newRow(&uid))
		}
		return rows
	case domain.ScopeSpecificUnits:
		rows := make([]*domain.UnitActivity, 0, len(unitNames))
		for _, name := range unitNames {
			if id, ok := unitIDs[name]; ok {
				uid := id
				rows = append(rows, newRow(&uid))
			}
		}
		return rows
	default:
		return []*domain.UnitActivity{newRow(nil)}
	}
}

func sortedUnitIDs(unitIDs map[string]string) []string {
	names := make([]string, 0, len(unitIDs))
	for name := range unitIDs {
		names = append(names, name)
	}
	// Deterministic fan-out order keeps imports reproducible.
	sort.Strings(names)
	ids := make([]string, len(names))
	for i, name := range names {
		ids[i] = unitIDs[name]
	}
	return ids
}
