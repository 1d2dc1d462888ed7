package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/repository"
)

// ErrAlreadyReviewed is returned when a review targets a measurement that has
// already been approved or rejected. Reviewed measurements are terminal.
var ErrAlreadyReviewed = errors.New("measurement already reviewed")

type measurementService struct {
	measurements   repository.MeasurementRepo
	activities     repository.ActivityRepo
	unitActivities repository.UnitActivityRepo
	units          repository.UnitRepo
	uow            db.UnitOfWork
	observer       UseCaseObserver
}

func NewMeasurementService(
	measurements repository.MeasurementRepo,
	activities repository.ActivityRepo,
	unitActivities repository.UnitActivityRepo,
	units repository.UnitRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) MeasurementService {
	return &measurementService{
		measurements:   measurements,
		activities:     activities,
		unitActivities: unitActivities,
		units:          units,
		uow:            uow,
		observer:       useCaseObserverOrNoop(observers),
	}
}

// Submit records a proposed progress value for review. The target unit
// activity is resolved up front and the current progress snapshotted, so the
// reviewer always sees what the proposal would replace.
func (s *measurementService) Submit(ctx context.Context, m *domain.Measurement) error {
	if m.ProposedProgress < 0 || m.ProposedProgress > 100 {
		return fmt.Errorf("proposed progress %.2f must be between 0 and 100", m.ProposedProgress)
	}

	activity, err := s.activities.GetByID(ctx, m.ActivityID)
	if err != nil {
		return err
	}
	if !activity.IsLeaf() {
		return fmt.Errorf("progress is measured on activities, not on %s %q", activity.Level, activity.Name)
	}

	var target *domain.UnitActivity
	if m.UnitActivityID != nil {
		target, err = s.unitActivities.GetByID(ctx, *m.UnitActivityID)
		if err != nil {
			return err
		}
		if target.ActivityID != m.ActivityID {
			return fmt.Errorf("unit activity %s does not belong to activity %q", target.ID, activity.Name)
		}
	} else {
		rows, err := s.unitActivities.ListByActivity(ctx, m.ActivityID)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			return fmt.Errorf("activity %q has no unit tracking rows", activity.Name)
		case 1:
			target = rows[0]
			m.UnitActivityID = &target.ID
		default:
			return fmt.Errorf("activity %q tracks %d units; specify which unit the measurement is for", activity.Name, len(rows))
		}
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.PreviousProgress = target.Progress
	m.Status = domain.MeasurementPending
	m.CreatedAt = time.Now().UTC()
	return s.measurements.Create(ctx, m)
}

// SubmitByName resolves an activity (and optionally one of its units) by name
// within a project, then submits a measurement against it.
func (s *measurementService) SubmitByName(ctx context.Context, projectID, activityName, unitName string, progress float64, notes string) (*domain.Measurement, error) {
	activity, err := s.activities.GetByName(ctx, projectID, activityName)
	if err != nil {
		return nil, err
	}

	m := &domain.Measurement{
		ActivityID:       activity.ID,
		ProposedProgress: progress,
		Notes:            notes,
	}

	if unitName != "" {
		unit, err := s.findUnitByName(ctx, projectID, unitName)
		if err != nil {
			return nil, err
		}
		rows, err := s.unitActivities.ListByActivity(ctx, activity.ID)
		if err != nil {
			return nil, err
		}
		var target *domain.UnitActivity
		for _, r := range rows {
			if r.UnitID != nil && *r.UnitID == unit.ID {
				target = r
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("activity %q does not track unit %q", activityName, unitName)
		}
		m.UnitActivityID = &target.ID
	}

	if err := s.Submit(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) findUnitByName(ctx context.Context, projectID, name string) (*domain.Unit, error) {
	units, err := s.units.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unit %q: %w", name, repository.ErrNotFound)
}

func (s *measurementService) Review(ctx context.Context, req contract.ReviewRequest) (*contract.ReviewResult, error) {
	started := time.Now()
	result, err := s.review(ctx, req)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:     "measurement_review",
		Duration: time.Since(started),
		Success:  err == nil,
		Err:      err,
		Fields: map[string]any{
			"measurement_id": req.MeasurementID,
			"approve":        req.Approve,
		},
		StartedAt: started,
	})
	return result, err
}

// review runs the whole decision in one transaction: the measurement flips to
// its terminal status, and on approval the new progress cascades from the unit
// activity through the leaf and its ancestors up to the project status.
func (s *measurementService) review(ctx context.Context, req contract.ReviewRequest) (*contract.ReviewResult, error) {
	var result *contract.ReviewResult

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMeasurements := repository.NewSQLiteMeasurementRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txUnitActivities := repository.NewSQLiteUnitActivityRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		m, err := txMeasurements.GetByID(ctx, req.MeasurementID)
		if err != nil {
			return err
		}
		if !m.Reviewable() {
			return fmt.Errorf("measurement %s: %w", m.ID, ErrAlreadyReviewed)
		}

		now := time.Now().UTC()
		status := domain.MeasurementRejected
		if req.Approve {
			status = domain.MeasurementApproved
		}
		m.Resolve(status, req.ReviewerID, req.Notes, now)
		if err := txMeasurements.Update(ctx, m); err != nil {
			return err
		}

		leaf, err := txActivities.GetByID(ctx, m.ActivityID)
		if err != nil {
			return err
		}

		result = &contract.ReviewResult{
			MeasurementID: m.ID,
			Approved:      req.Approve,
			ActivityName:  leaf.Name,
		}

		p, err := txProjects.GetByID(ctx, leaf.ProjectID)
		if err != nil {
			return err
		}

		if !req.Approve {
			// Rejection touches measurement metadata only.
			result.ProjectStatus = string(p.Status)
			return nil
		}

		if m.UnitActivityID == nil {
			return fmt.Errorf("measurement %s has no unit activity target", m.ID)
		}
		ua, err := txUnitActivities.GetByID(ctx, *m.UnitActivityID)
		if err != nil {
			return err
		}
		ua.ApplyProgress(m.ProposedProgress, now)
		if err := txUnitActivities.Update(ctx, ua); err != nil {
			return err
		}
		result.AppliedProgress = m.ProposedProgress

		statuses, err := s.cascadeStatuses(ctx, txActivities, txUnitActivities, leaf, now)
		if err != nil {
			return err
		}

		if err := s.transitionProject(ctx, txProjects, txActivities, p, statuses, now); err != nil {
			return err
		}
		result.ProjectStatus = string(p.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cascadeStatuses re-derives the leaf's status from its unit activities, then
// rolls statuses up the ancestor chain. Returns the resulting status of every
// node in the project.
func (s *measurementService) cascadeStatuses(
	ctx context.Context,
	txActivities *repository.SQLiteActivityRepo,
	txUnitActivities *repository.SQLiteUnitActivityRepo,
	leaf *domain.ActivityNode,
	now time.Time,
) (map[string]domain.ActivityStatus, error) {
	nodes, err := txActivities.ListByProject(ctx, leaf.ProjectID)
	if err != nil {
		return nil, err
	}
	tree := domain.BuildTree(nodes)

	statuses := make(map[string]domain.ActivityStatus, len(nodes))
	for _, n := range nodes {
		statuses[n.ID] = n.Status
	}

	rows, err := txUnitActivities.ListByActivity(ctx, leaf.ID)
	if err != nil {
		return nil, err
	}
	var rowStatuses []domain.ActivityStatus
	for _, r := range rows {
		rowStatuses = append(rowStatuses, r.Status)
	}
	leafStatus := domain.RollupStatus(rowStatuses)
	if leafStatus != statuses[leaf.ID] {
		if err := txActivities.UpdateStatus(ctx, leaf.ID, leafStatus); err != nil {
			return nil, err
		}
		statuses[leaf.ID] = leafStatus
	}

	parentID := leaf.ParentID
	for parentID != nil {
		parent, ok := tree.Nodes[*parentID]
		if !ok {
			break
		}
		var childStatuses []domain.ActivityStatus
		for _, c := range tree.Children[parent.ID] {
			childStatuses = append(childStatuses, statuses[c.ID])
		}
		rolled := domain.RollupStatus(childStatuses)
		if rolled != statuses[parent.ID] {
			if err := txActivities.UpdateStatus(ctx, parent.ID, rolled); err != nil {
				return nil, err
			}
			statuses[parent.ID] = rolled
		}
		parentID = parent.ParentID
	}

	return statuses, nil
}

// transitionProject applies the automatic project transitions: PLANNING moves
// to IN_PROGRESS when any root starts, IN_PROGRESS to COMPLETED (stamping the
// actual end date) when every root completes. Paused and cancelled projects
// are left alone, and no automatic transition ever moves backward.
func (s *measurementService) transitionProject(
	ctx context.Context,
	txProjects *repository.SQLiteProjectRepo,
	txActivities *repository.SQLiteActivityRepo,
	p *domain.Project,
	statuses map[string]domain.ActivityStatus,
	now time.Time,
) error {
	if p.ManuallyHeld() || p.Status == domain.ProjectCompleted {
		return nil
	}

	nodes, err := txActivities.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	var rootStatuses []domain.ActivityStatus
	for _, n := range nodes {
		if n.ParentID == nil {
			rootStatuses = append(rootStatuses, statuses[n.ID])
		}
	}
	rolled := domain.RollupStatus(rootStatuses)

	next := p.Status
	if p.Status == domain.ProjectPlanning && rolled != domain.ActivityPending {
		next = domain.ProjectInProgress
	}
	if rolled == domain.ActivityCompleted {
		next = domain.ProjectCompleted
	}
	if next == p.Status {
		return nil
	}

	p.Status = next
	if next == domain.ProjectCompleted {
		p.ActualEndDate = &now
	}
	p.UpdatedAt = now
	return txProjects.Update(ctx, p)
}

func (s *measurementService) ListPending(ctx context.Context, projectID string) ([]*domain.Measurement, error) {
	return s.measurements.ListPendingByProject(ctx, projectID)
}
