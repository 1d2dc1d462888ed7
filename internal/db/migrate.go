package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations holds every schema statement, applied in order. Statements are
// written to be re-runnable (IF NOT EXISTS) so Migrate can execute the full
// list on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		short_id        TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
		calendar_mode   TEXT NOT NULL
		                CHECK(calendar_mode IN ('BUSINESS_DAYS','CALENDAR_DAYS')),
		status          TEXT NOT NULL DEFAULT 'PLANNING'
		                CHECK(status IN ('PLANNING','IN_PROGRESS','PAUSED','CANCELLED','COMPLETED')),
		actual_end_date TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_holidays (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		day        TEXT NOT NULL,
		PRIMARY KEY (project_id, day)
	)`,

	`CREATE TABLE IF NOT EXISTS units (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id     TEXT REFERENCES activities(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		level         TEXT NOT NULL
		              CHECK(level IN ('PHASE','STAGE','ACTIVITY')),
		order_index   INTEGER NOT NULL DEFAULT 0,
		weight        REAL NOT NULL DEFAULT 1,
		duration_days INTEGER,
		scope         TEXT NOT NULL DEFAULT 'GENERAL'
		              CHECK(scope IN ('ALL_UNITS','SPECIFIC_UNITS','GENERAL')),
		color         TEXT,
		planned_start TEXT,
		planned_end   TEXT,
		status        TEXT NOT NULL DEFAULT 'PENDING'
		              CHECK(status IN ('PENDING','IN_PROGRESS','COMPLETED')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_parent ON activities(parent_id)`,

	`CREATE TABLE IF NOT EXISTS activity_dependencies (
		activity_id     TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		depends_on_name TEXT NOT NULL,
		PRIMARY KEY (activity_id, depends_on_name)
	)`,

	`CREATE TABLE IF NOT EXISTS unit_activities (
		id          TEXT PRIMARY KEY,
		activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		unit_id     TEXT REFERENCES units(id) ON DELETE CASCADE,
		progress    REAL NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'PENDING'
		            CHECK(status IN ('PENDING','IN_PROGRESS','COMPLETED')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_unit_activities_activity ON unit_activities(activity_id)`,

	`CREATE TABLE IF NOT EXISTS measurements (
		id                TEXT PRIMARY KEY,
		activity_id       TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		unit_activity_id  TEXT REFERENCES unit_activities(id) ON DELETE CASCADE,
		proposed_progress REAL NOT NULL,
		previous_progress REAL NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'PENDING'
		                  CHECK(status IN ('PENDING','APPROVED','REJECTED')),
		notes             TEXT NOT NULL DEFAULT '',
		reviewer_id       TEXT,
		reviewed_at       TEXT,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_measurements_activity ON measurements(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_status ON measurements(status)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
