package service

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/repository"
)

// testStack wires every service against one in-memory database, the same way
// main does against the real file.
type testStack struct {
	db           *sql.DB
	projects     ProjectService
	units        UnitService
	plans        PlanService
	measurements MeasurementService
	progress     ProgressService

	activityRepo     repository.ActivityRepo
	unitActivityRepo repository.UnitActivityRepo
	measurementRepo  repository.MeasurementRepo
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	projectRepo := repository.NewSQLiteProjectRepo(database)
	unitRepo := repository.NewSQLiteUnitRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	unitActivityRepo := repository.NewSQLiteUnitActivityRepo(database)
	measurementRepo := repository.NewSQLiteMeasurementRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	return &testStack{
		db:               database,
		projects:         NewProjectService(projectRepo),
		units:            NewUnitService(unitRepo),
		plans:            NewPlanService(projectRepo, activityRepo, uow),
		measurements:     NewMeasurementService(measurementRepo, activityRepo, unitActivityRepo, unitRepo, uow),
		progress:         NewProgressService(projectRepo, activityRepo, unitActivityRepo),
		activityRepo:     activityRepo,
		unitActivityRepo: unitActivityRepo,
		measurementRepo:  measurementRepo,
	}
}

// writePlanFile drops a plan JSON into a temp dir and returns its path.
func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// towerPlan is a two-phase plan over Jan-Feb 2024 with two units.
// Structure gets 50% of the window, Finishes the other 50%.
const towerPlan = `{
  "project": {
    "short_id": "OBR01",
    "name": "Tower A",
    "start_date": "2024-01-01",
    "end_date": "2024-02-29",
    "calendar_mode": "CALENDAR_DAYS"
  },
  "units": [
    {"name": "House 1", "order": 1},
    {"name": "House 2", "order": 2}
  ],
  "phases": [
    {
      "name": "Structure",
      "order": 1,
      "percentage": 50,
      "stages": [
        {
          "name": "Walls",
          "order": 1,
          "activities": [
            {"name": "Masonry", "order": 1, "weight": 2, "scope": "ALL_UNITS"},
            {"name": "Plaster", "order": 2, "weight": 1, "depends_on": ["Masonry"], "scope": "ALL_UNITS"}
          ]
        }
      ]
    },
    {
      "name": "Finishes",
      "order": 2,
      "percentage": 50,
      "stages": [
        {
          "name": "Paint",
          "order": 1,
          "activities": [
            {"name": "Interior paint", "order": 1, "weight": 1, "scope": "SPECIFIC_UNITS", "units": ["House 1"]},
            {"name": "Site cleanup", "order": 2, "weight": 1}
          ]
        }
      ]
    }
  ]
}`
