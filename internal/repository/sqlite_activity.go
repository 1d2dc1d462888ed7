package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
)

const activityColumns = `id, project_id, parent_id, name, level, order_index, weight,
		duration_days, scope, color, planned_start, planned_end, status, created_at, updated_at`

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
// Dependency names live in activity_dependencies and are loaded with each node.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(db db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

func (r *SQLiteActivityRepo) Create(ctx context.Context, n *domain.ActivityNode) error {
	query := `INSERT INTO activities (id, project_id, parent_id, name, level, order_index, weight,
		duration_days, scope, color, planned_start, planned_end, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ProjectID,
		nullableStringToValue(n.ParentID),
		n.Name,
		string(n.Level),
		n.OrderIndex,
		n.Weight,
		nullableIntToValue(n.DurationDays),
		string(n.Scope),
		nullableStringToValue(n.Color),
		nullableTimeToString(n.PlannedStart, dateLayout),
		nullableTimeToString(n.PlannedEnd, dateLayout),
		string(n.Status),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	for _, dep := range n.DependsOn {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO activity_dependencies (activity_id, depends_on_name) VALUES (?, ?)`,
			n.ID, dep)
		if err != nil {
			return fmt.Errorf("inserting activity dependency: %w", err)
		}
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.ActivityNode, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	n, err := r.scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return r.loadDependencies(ctx, n)
}

func (r *SQLiteActivityRepo) GetByName(ctx context.Context, projectID, name string) (*domain.ActivityNode, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE project_id = ? AND name = ?`
	n, err := r.scanActivity(r.db.QueryRowContext(ctx, query, projectID, name))
	if err != nil {
		return nil, err
	}
	return r.loadDependencies(ctx, n)
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ActivityNode, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE project_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.ActivityNode
	for rows.Next() {
		n, err := r.scanActivityRow(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}

	for _, n := range nodes {
		if _, err := r.loadDependencies(ctx, n); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (r *SQLiteActivityRepo) UpdateDates(ctx context.Context, n *domain.ActivityNode) error {
	query := `UPDATE activities SET planned_start = ?, planned_end = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(n.PlannedStart, dateLayout),
		nullableTimeToString(n.PlannedEnd, dateLayout),
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity dates: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) UpdateStatus(ctx context.Context, id string, status domain.ActivityStatus) error {
	query := `UPDATE activities SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(status),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating activity status: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) loadDependencies(ctx context.Context, n *domain.ActivityNode) (*domain.ActivityNode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT depends_on_name FROM activity_dependencies WHERE activity_id = ? ORDER BY depends_on_name`, n.ID)
	if err != nil {
		return nil, fmt.Errorf("listing activity dependencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("scanning activity dependency: %w", err)
		}
		n.DependsOn = append(n.DependsOn, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity dependencies: %w", err)
	}
	return n, nil
}

func (r *SQLiteActivityRepo) scanActivity(row *sql.Row) (*domain.ActivityNode, error) {
	var n domain.ActivityNode
	var levelStr, scopeStr, statusStr, createdAtStr, updatedAtStr string
	var parentID, color, plannedStart, plannedEnd sql.NullString
	var durationDays sql.NullInt64

	err := row.Scan(
		&n.ID, &n.ProjectID, &parentID, &n.Name, &levelStr, &n.OrderIndex, &n.Weight,
		&durationDays, &scopeStr, &color, &plannedStart, &plannedEnd, &statusStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	return r.populateActivity(&n, levelStr, scopeStr, statusStr, createdAtStr, updatedAtStr,
		parentID, color, plannedStart, plannedEnd, durationDays)
}

func (r *SQLiteActivityRepo) scanActivityRow(rows *sql.Rows) (*domain.ActivityNode, error) {
	var n domain.ActivityNode
	var levelStr, scopeStr, statusStr, createdAtStr, updatedAtStr string
	var parentID, color, plannedStart, plannedEnd sql.NullString
	var durationDays sql.NullInt64

	err := rows.Scan(
		&n.ID, &n.ProjectID, &parentID, &n.Name, &levelStr, &n.OrderIndex, &n.Weight,
		&durationDays, &scopeStr, &color, &plannedStart, &plannedEnd, &statusStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning activity row: %w", err)
	}
	return r.populateActivity(&n, levelStr, scopeStr, statusStr, createdAtStr, updatedAtStr,
		parentID, color, plannedStart, plannedEnd, durationDays)
}

func (r *SQLiteActivityRepo) populateActivity(
	n *domain.ActivityNode,
	levelStr, scopeStr, statusStr, createdAtStr, updatedAtStr string,
	parentID, color, plannedStart, plannedEnd sql.NullString,
	durationDays sql.NullInt64,
) (*domain.ActivityNode, error) {
	n.Level = domain.Level(levelStr)
	n.Scope = domain.ActivityScope(scopeStr)
	n.Status = domain.ActivityStatus(statusStr)
	n.ParentID = parseNullableString(parentID)
	n.Color = parseNullableString(color)
	n.PlannedStart = parseNullableTime(plannedStart, dateLayout)
	n.PlannedEnd = parseNullableTime(plannedEnd, dateLayout)
	if durationDays.Valid {
		d := int(durationDays.Int64)
		n.DurationDays = &d
	}

	var err error
	n.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	n.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return n, nil
}
