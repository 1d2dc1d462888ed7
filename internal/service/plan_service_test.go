package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueroa/sitework/internal/domain"
)

func TestImportPlan_CreatesFullHierarchy(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	summary, err := stack.plans.ImportPlan(ctx, writePlanFile(t, towerPlan))
	require.NoError(t, err)

	assert.Equal(t, "OBR01", summary.ProjectShortID)
	assert.Equal(t, 2, summary.Units)
	assert.Equal(t, 2, summary.Phases)
	assert.Equal(t, 2, summary.Stages)
	assert.Equal(t, 4, summary.Activities)
	// Masonry+Plaster fan out per unit (2 each), Interior paint covers one
	// unit, Site cleanup gets a single unscoped row.
	assert.Equal(t, 6, summary.UnitActivities)
	assert.Empty(t, summary.Warnings)

	p, err := stack.projects.Resolve(ctx, "OBR01")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanning, p.Status)

	nodes, err := stack.activityRepo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 8)
}

func TestImportPlan_ValidationFailureCreatesNothing(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	bad := `{
	  "project": {"short_id": "OBR01", "name": "Tower A", "start_date": "2024-01-01", "end_date": "2024-02-29"},
	  "phases": [{"name": "Structure", "order": 1, "percentage": 0}]
	}`
	_, err := stack.plans.ImportPlan(ctx, writePlanFile(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan validation failed")

	projects, err := stack.projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestImportPlan_CycleWarnsButImports(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	cyclic := `{
	  "project": {"short_id": "OBR02", "name": "Tower B", "start_date": "2024-01-01", "end_date": "2024-02-29"},
	  "phases": [
	    {"name": "Structure", "order": 1, "percentage": 100, "stages": [
	      {"name": "Walls", "order": 1, "activities": [
	        {"name": "A", "order": 1, "depends_on": ["B"]},
	        {"name": "B", "order": 2, "depends_on": ["A"]}
	      ]}
	    ]}
	  ]
	}`
	summary, err := stack.plans.ImportPlan(ctx, writePlanFile(t, cyclic))
	require.NoError(t, err, "dependency cycles must not block import")
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "dependency cycle")
}

func TestSchedule_PersistsDatesAtEveryLevel(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	summary, err := stack.plans.ImportPlan(ctx, writePlanFile(t, towerPlan))
	require.NoError(t, err)

	result, err := stack.plans.Schedule(ctx, summary.ProjectID)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 8)

	nodes, err := stack.activityRepo.ListByProject(ctx, summary.ProjectID)
	require.NoError(t, err)
	byName := make(map[string]*domain.ActivityNode)
	for _, n := range nodes {
		require.NotNil(t, n.PlannedStart, "node %q must have a planned start", n.Name)
		require.NotNil(t, n.PlannedEnd, "node %q must have a planned end", n.Name)
		byName[n.Name] = n
	}

	// Calendar-days split of Jan 1 - Feb 29 (60 days): Structure takes the
	// first 30, Finishes the remaining 30.
	structure := byName["Structure"]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *structure.PlannedStart)
	assert.Equal(t, time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), *structure.PlannedEnd)

	finishes := byName["Finishes"]
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *finishes.PlannedStart)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *finishes.PlannedEnd)

	// Plaster depends on Masonry: 2:1 weight split of 30 days gives Masonry
	// 20 days (Jan 1-20), so Plaster runs Jan 21-30.
	masonry := byName["Masonry"]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *masonry.PlannedStart)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), *masonry.PlannedEnd)

	plaster := byName["Plaster"]
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), *plaster.PlannedStart)
	assert.Equal(t, time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), *plaster.PlannedEnd)
}

func TestSchedule_DuplicateStageNamesAcrossPhases(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	// Stage names are only unique within a phase; both phases here carry a
	// "Walls" stage, and each must still get its own window.
	plan := `{
	  "project": {"short_id": "OBR04", "name": "Twin Walls", "start_date": "2024-01-01", "end_date": "2024-02-29", "calendar_mode": "CALENDAR_DAYS"},
	  "phases": [
	    {"name": "Structure", "order": 1, "percentage": 50, "stages": [
	      {"name": "Walls", "order": 1, "activities": [
	        {"name": "Masonry", "order": 1, "weight": 1}
	      ]}
	    ]},
	    {"name": "Finishes", "order": 2, "percentage": 50, "stages": [
	      {"name": "Walls", "order": 1, "activities": [
	        {"name": "Interior paint", "order": 1, "weight": 1}
	      ]}
	    ]}
	  ]
	}`
	summary, err := stack.plans.ImportPlan(ctx, writePlanFile(t, plan))
	require.NoError(t, err)

	_, err = stack.plans.Schedule(ctx, summary.ProjectID)
	require.NoError(t, err)

	nodes, err := stack.activityRepo.ListByProject(ctx, summary.ProjectID)
	require.NoError(t, err)
	require.Len(t, nodes, 6)

	walls := make(map[string]*domain.ActivityNode) // keyed by parent phase name
	byID := make(map[string]*domain.ActivityNode)
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, n := range nodes {
		require.NotNil(t, n.PlannedStart, "node %q (%s) must have a planned start", n.Name, n.Level)
		require.NotNil(t, n.PlannedEnd, "node %q (%s) must have a planned end", n.Name, n.Level)
		if n.Level == domain.LevelStage {
			walls[byID[*n.ParentID].Name] = n
		}
	}

	// Each phase's Walls stage tracks its own phase window, not the other's.
	require.Len(t, walls, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *walls["Structure"].PlannedStart)
	assert.Equal(t, time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), *walls["Structure"].PlannedEnd)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *walls["Finishes"].PlannedStart)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *walls["Finishes"].PlannedEnd)
}

func TestSchedule_FlatPlanRejected(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	p := &domain.Project{
		ShortID:   "OBR03",
		Name:      "Legacy",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, stack.projects.Create(ctx, p))
	now := time.Now().UTC()
	require.NoError(t, stack.activityRepo.Create(ctx, &domain.ActivityNode{
		ID: "a1", ProjectID: p.ID, Name: "Loose task", Level: domain.LevelActivity,
		Weight: 1, Scope: domain.ScopeGeneral, Status: domain.ActivityPending,
		CreatedAt: now, UpdatedAt: now,
	}))

	_, err := stack.plans.Schedule(ctx, p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flat plan")
}
