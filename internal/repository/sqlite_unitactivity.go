package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
)

const unitActivityColumns = `id, activity_id, unit_id, progress, status, created_at, updated_at`

// SQLiteUnitActivityRepo implements UnitActivityRepo using a SQLite database.
type SQLiteUnitActivityRepo struct {
	db db.DBTX
}

// NewSQLiteUnitActivityRepo creates a new SQLiteUnitActivityRepo.
func NewSQLiteUnitActivityRepo(db db.DBTX) *SQLiteUnitActivityRepo {
	return &SQLiteUnitActivityRepo{db: db}
}

func (r *SQLiteUnitActivityRepo) Create(ctx context.Context, ua *domain.UnitActivity) error {
	query := `INSERT INTO unit_activities (id, activity_id, unit_id, progress, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ua.ID,
		ua.ActivityID,
		nullableStringToValue(ua.UnitID),
		ua.Progress,
		string(ua.Status),
		ua.CreatedAt.Format(time.RFC3339),
		ua.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting unit activity: %w", err)
	}
	return nil
}

func (r *SQLiteUnitActivityRepo) GetByID(ctx context.Context, id string) (*domain.UnitActivity, error) {
	query := `SELECT ` + unitActivityColumns + ` FROM unit_activities WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	ua, err := scanUnitActivity(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unit activity: %w", ErrNotFound)
		}
		return nil, err
	}
	return ua, nil
}

func (r *SQLiteUnitActivityRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.UnitActivity, error) {
	query := `SELECT ` + unitActivityColumns + ` FROM unit_activities WHERE activity_id = ? ORDER BY created_at`
	return r.list(ctx, query, activityID)
}

func (r *SQLiteUnitActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.UnitActivity, error) {
	query := `SELECT ua.id, ua.activity_id, ua.unit_id, ua.progress, ua.status, ua.created_at, ua.updated_at
		FROM unit_activities ua
		JOIN activities a ON a.id = ua.activity_id
		WHERE a.project_id = ?
		ORDER BY ua.created_at`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteUnitActivityRepo) Update(ctx context.Context, ua *domain.UnitActivity) error {
	query := `UPDATE unit_activities SET progress = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		ua.Progress,
		string(ua.Status),
		ua.UpdatedAt.Format(time.RFC3339),
		ua.ID,
	)
	if err != nil {
		return fmt.Errorf("updating unit activity: %w", err)
	}
	return nil
}

func (r *SQLiteUnitActivityRepo) list(ctx context.Context, query string, arg string) ([]*domain.UnitActivity, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing unit activities: %w", err)
	}
	defer rows.Close()

	var uas []*domain.UnitActivity
	for rows.Next() {
		ua, err := scanUnitActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		uas = append(uas, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit activities: %w", err)
	}
	return uas, nil
}

func scanUnitActivity(scan func(dest ...any) error) (*domain.UnitActivity, error) {
	var ua domain.UnitActivity
	var statusStr, createdAtStr, updatedAtStr string
	var unitID sql.NullString

	err := scan(&ua.ID, &ua.ActivityID, &unitID, &ua.Progress, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning unit activity: %w", err)
	}
	ua.Status = domain.ActivityStatus(statusStr)
	ua.UnitID = parseNullableString(unitID)

	ua.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	ua.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &ua, nil
}
