package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
)

const measurementColumns = `id, activity_id, unit_activity_id, proposed_progress,
		previous_progress, status, notes, reviewer_id, reviewed_at, created_at`

// SQLiteMeasurementRepo implements MeasurementRepo using a SQLite database.
type SQLiteMeasurementRepo struct {
	db db.DBTX
}

// NewSQLiteMeasurementRepo creates a new SQLiteMeasurementRepo.
func NewSQLiteMeasurementRepo(db db.DBTX) *SQLiteMeasurementRepo {
	return &SQLiteMeasurementRepo{db: db}
}

func (r *SQLiteMeasurementRepo) Create(ctx context.Context, m *domain.Measurement) error {
	query := `INSERT INTO measurements (id, activity_id, unit_activity_id, proposed_progress,
		previous_progress, status, notes, reviewer_id, reviewed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ActivityID,
		nullableStringToValue(m.UnitActivityID),
		m.ProposedProgress,
		m.PreviousProgress,
		string(m.Status),
		m.Notes,
		nullableStringToValue(m.ReviewerID),
		nullableTimeToString(m.ReviewedAt, time.RFC3339),
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting measurement: %w", err)
	}
	return nil
}

func (r *SQLiteMeasurementRepo) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	m, err := scanMeasurement(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("measurement: %w", ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *SQLiteMeasurementRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE activity_id = ? ORDER BY created_at`
	return r.list(ctx, query, activityID)
}

func (r *SQLiteMeasurementRepo) ListPendingByProject(ctx context.Context, projectID string) ([]*domain.Measurement, error) {
	query := `SELECT m.id, m.activity_id, m.unit_activity_id, m.proposed_progress,
		m.previous_progress, m.status, m.notes, m.reviewer_id, m.reviewed_at, m.created_at
		FROM measurements m
		JOIN activities a ON a.id = m.activity_id
		WHERE a.project_id = ? AND m.status = 'PENDING'
		ORDER BY m.created_at`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteMeasurementRepo) Update(ctx context.Context, m *domain.Measurement) error {
	query := `UPDATE measurements SET status = ?, notes = ?, reviewer_id = ?, reviewed_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(m.Status),
		m.Notes,
		nullableStringToValue(m.ReviewerID),
		nullableTimeToString(m.ReviewedAt, time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating measurement: %w", err)
	}
	return nil
}

func (r *SQLiteMeasurementRepo) list(ctx context.Context, query string, arg string) ([]*domain.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing measurements: %w", err)
	}
	defer rows.Close()

	var ms []*domain.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows.Scan)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating measurements: %w", err)
	}
	return ms, nil
}

func scanMeasurement(scan func(dest ...any) error) (*domain.Measurement, error) {
	var m domain.Measurement
	var statusStr, createdAtStr string
	var unitActivityID, reviewerID, reviewedAt sql.NullString

	err := scan(&m.ID, &m.ActivityID, &unitActivityID, &m.ProposedProgress,
		&m.PreviousProgress, &statusStr, &m.Notes, &reviewerID, &reviewedAt, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning measurement: %w", err)
	}
	m.Status = domain.MeasurementStatus(statusStr)
	m.UnitActivityID = parseNullableString(unitActivityID)
	m.ReviewerID = parseNullableString(reviewerID)
	m.ReviewedAt = parseNullableTime(reviewedAt, time.RFC3339)

	m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &m, nil
}
