package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
)

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, short_id, name, start_date, end_date, calendar_mode,
		status, actual_end_date, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
// Holiday rows live in project_holidays and are loaded with the project.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, short_id, name, start_date, end_date, calendar_mode,
		status, actual_end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		string(p.CalendarMode),
		string(p.Status),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return r.replaceHolidays(ctx, p.ID, p.Holidays)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := r.scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return r.loadHolidays(ctx, p)
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE short_id = ?`
	p, err := r.scanProject(r.db.QueryRowContext(ctx, query, shortID))
	if err != nil {
		return nil, err
	}
	return r.loadHolidays(ctx, p)
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	for _, p := range projects {
		if _, err := r.loadHolidays(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET short_id = ?, name = ?, start_date = ?, end_date = ?,
		calendar_mode = ?, status = ?, actual_end_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Name,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		string(p.CalendarMode),
		string(p.Status),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return r.replaceHolidays(ctx, p.ID, p.Holidays)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) replaceHolidays(ctx context.Context, projectID string, holidays []time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_holidays WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing project holidays: %w", err)
	}
	for _, h := range holidays {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO project_holidays (project_id, day) VALUES (?, ?)`,
			projectID, h.Format(dateLayout))
		if err != nil {
			return fmt.Errorf("inserting project holiday: %w", err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) loadHolidays(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day FROM project_holidays WHERE project_id = ? ORDER BY day`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing project holidays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayStr string
		if err := rows.Scan(&dayStr); err != nil {
			return nil, fmt.Errorf("scanning project holiday: %w", err)
		}
		day, err := time.Parse(dateLayout, dayStr)
		if err != nil {
			return nil, fmt.Errorf("parsing project holiday: %w", err)
		}
		p.Holidays = append(p.Holidays, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project holidays: %w", err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var modeStr, statusStr, startStr, endStr, createdAtStr, updatedAtStr string
	var actualEndStr sql.NullString

	err := row.Scan(
		&p.ID, &p.ShortID, &p.Name, &startStr, &endStr, &modeStr,
		&statusStr, &actualEndStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return r.populateProject(&p, modeStr, statusStr, startStr, endStr, createdAtStr, updatedAtStr, actualEndStr)
}

func (r *SQLiteProjectRepo) scanProjectRow(rows *sql.Rows) (*domain.Project, error) {
	var p domain.Project
	var modeStr, statusStr, startStr, endStr, createdAtStr, updatedAtStr string
	var actualEndStr sql.NullString

	err := rows.Scan(
		&p.ID, &p.ShortID, &p.Name, &startStr, &endStr, &modeStr,
		&statusStr, &actualEndStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning project row: %w", err)
	}
	return r.populateProject(&p, modeStr, statusStr, startStr, endStr, createdAtStr, updatedAtStr, actualEndStr)
}

func (r *SQLiteProjectRepo) populateProject(
	p *domain.Project,
	modeStr, statusStr, startStr, endStr, createdAtStr, updatedAtStr string,
	actualEndStr sql.NullString,
) (*domain.Project, error) {
	p.CalendarMode = domain.CalendarMode(modeStr)
	p.Status = domain.ProjectStatus(statusStr)

	var parseErr error
	p.StartDate, parseErr = time.Parse(dateLayout, startStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	p.EndDate, parseErr = time.Parse(dateLayout, endStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	p.ActualEndDate = parseNullableTime(actualEndStr, dateLayout)
	return p, nil
}
