package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/repository"
	"github.com/mfigueroa/sitework/internal/service"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
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

	return &App{
		Projects:      service.NewProjectService(projectRepo),
		Units:         service.NewUnitService(unitRepo),
		Plans:         service.NewPlanService(projectRepo, activityRepo, uow),
		Measurements:  service.NewMeasurementService(measurementRepo, activityRepo, unitActivityRepo, unitRepo, uow),
		Progress:      service.NewProgressService(projectRepo, activityRepo, unitActivityRepo),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command against the app and captures cobra output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// writePlan drops a plan JSON into a temp dir and returns its path.
func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(cliTowerPlan), 0644))
	return path
}

const cliTowerPlan = `{
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
            {"name": "Site cleanup", "order": 1, "weight": 1}
          ]
        }
      ]
    }
  ]
}`

func TestProjectCmd_AddAndLifecycle(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add",
		"--id", "obr01", "--name", "Tower A",
		"--start", "2024-01-01", "--end", "2024-02-29")
	require.NoError(t, err)

	p, err := app.Projects.Resolve(context.Background(), "OBR01")
	require.NoError(t, err)
	assert.Equal(t, "Tower A", p.Name)

	_, err = executeCmd(t, app, "project", "pause", "obr01")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "project", "resume", "OBR01")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "project", "cancel", "OBR01")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "project", "remove", "OBR01")
	require.NoError(t, err)

	_, err = app.Projects.Resolve(context.Background(), "OBR01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectCmd_Inspect(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add",
		"--id", "OBR01", "--name", "Tower A",
		"--start", "2024-01-01", "--end", "2024-02-29")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "project", "inspect", "OBR01")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "project", "inspect", "NOPE99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectCmd_AddUsesConfiguredCalendarDefault(t *testing.T) {
	app := testApp(t)
	app.DefaultCalendarMode = "CALENDAR_DAYS"

	_, err := executeCmd(t, app, "project", "add",
		"--id", "OBR01", "--name", "Tower A",
		"--start", "2024-01-01", "--end", "2024-02-29")
	require.NoError(t, err)

	p, err := app.Projects.Resolve(context.Background(), "OBR01")
	require.NoError(t, err)
	assert.Equal(t, domain.CalendarDays, p.CalendarMode)
}

func TestProjectCmd_AddRejectsUnknownCalendarMode(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add",
		"--id", "OBR01", "--name", "Tower A",
		"--start", "2024-01-01", "--end", "2024-02-29",
		"--calendar", "WEEKDAYS")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid calendar mode")
}

func TestProjectCmd_AddRejectsBadDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add",
		"--id", "OBR01", "--name", "Tower A",
		"--start", "January 1st", "--end", "2024-02-29")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start date")
}

func TestProjectCmd_AddRequiresFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "Tower A")
	assert.Error(t, err)
}

func TestUnitCmd_AddAndList(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add",
		"--id", "OBR01", "--name", "Tower A",
		"--start", "2024-01-01", "--end", "2024-02-29")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "unit", "add", "--project", "OBR01", "--name", "House 1", "--order", "1")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "unit", "list", "--project", "OBR01")
	require.NoError(t, err)

	p, err := app.Projects.Resolve(context.Background(), "OBR01")
	require.NoError(t, err)
	units, err := app.Units.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "House 1", units[0].Name)
}

func TestPlanCmd_ImportScheduleShow(t *testing.T) {
	app := testApp(t)
	path := writePlan(t)

	_, err := executeCmd(t, app, "plan", "import", path)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "schedule", "OBR01")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "show", "OBR01")
	require.NoError(t, err)

	p, err := app.Projects.Resolve(context.Background(), "OBR01")
	require.NoError(t, err)
	report, err := app.Progress.Report(context.Background(), p.ID)
	require.NoError(t, err)
	for _, row := range report.Rows {
		assert.NotNil(t, row.PlannedStart, "row %s should be scheduled", row.Name)
	}
}

func TestPlanCmd_ImportMissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "plan", "import", "/nonexistent/plan.json")
	assert.Error(t, err)
}

func TestMeasureCmd_SubmitReviewList(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "import", writePlan(t))
	require.NoError(t, err)

	_, err = executeCmd(t, app, "measure", "submit",
		"--project", "OBR01", "--activity", "Masonry", "--unit", "House 1", "--progress", "60")
	require.NoError(t, err)

	p, err := app.Projects.Resolve(context.Background(), "OBR01")
	require.NoError(t, err)
	pending, err := app.Measurements.ListPending(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = executeCmd(t, app, "measure", "list", "--project", "OBR01")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "measure", "review", pending[0].ID, "--approve", "--reviewer", "erika")
	require.NoError(t, err)

	pending, err = app.Measurements.ListPending(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMeasureCmd_SubmitNeedsUnitForMultiUnitActivity(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "import", writePlan(t))
	require.NoError(t, err)

	_, err = executeCmd(t, app, "measure", "submit",
		"--project", "OBR01", "--activity", "Masonry", "--progress", "60")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tracks 2 units")
}

func TestMeasureCmd_ReviewNeedsDecisionWithoutTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "measure", "review", "some-id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--approve or --reject")
}

func TestMeasureCmd_ReviewRejectsConflictingFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "measure", "review", "some-id", "--approve", "--reject")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestStatusCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "import", writePlan(t))
	require.NoError(t, err)

	_, err = executeCmd(t, app, "status", "OBR01")
	require.NoError(t, err)
}

func TestStatusCmd_UnknownProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "status", "NOPE01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBoardCmd_FallsBackWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "plan", "import", writePlan(t))
	require.NoError(t, err)

	// IsInteractive is false in tests, so the board degrades to the static report.
	_, err = executeCmd(t, app, "board", "OBR01")
	require.NoError(t, err)
}
