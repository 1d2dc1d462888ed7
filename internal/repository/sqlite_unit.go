package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
)

const unitColumns = `id, project_id, name, order_index, created_at, updated_at`

// SQLiteUnitRepo implements UnitRepo using a SQLite database.
type SQLiteUnitRepo struct {
	db db.DBTX
}

// NewSQLiteUnitRepo creates a new SQLiteUnitRepo.
func NewSQLiteUnitRepo(db db.DBTX) *SQLiteUnitRepo {
	return &SQLiteUnitRepo{db: db}
}

func (r *SQLiteUnitRepo) Create(ctx context.Context, u *domain.Unit) error {
	query := `INSERT INTO units (id, project_id, name, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.ProjectID,
		u.Name,
		u.OrderIndex,
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting unit: %w", err)
	}
	return nil
}

func (r *SQLiteUnitRepo) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var u domain.Unit
	var createdAtStr, updatedAtStr string
	err := row.Scan(&u.ID, &u.ProjectID, &u.Name, &u.OrderIndex, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning unit: %w", err)
	}
	if err := parseUnitTimestamps(&u, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteUnitRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE project_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	var units []*domain.Unit
	for rows.Next() {
		var u domain.Unit
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Name, &u.OrderIndex, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		if err := parseUnitTimestamps(&u, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		units = append(units, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating units: %w", err)
	}
	return units, nil
}

func (r *SQLiteUnitRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}
	return nil
}

func parseUnitTimestamps(u *domain.Unit, createdAtStr, updatedAtStr string) error {
	var err error
	u.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	u.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
