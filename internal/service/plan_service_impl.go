package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/importer"
	"github.com/mfigueroa/sitework/internal/repository"
	"github.com/mfigueroa/sitework/internal/schedule"
)

type planService struct {
	projects   repository.ProjectRepo
	activities repository.ActivityRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanService(
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		projects:   projects,
		activities: activities,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) ImportPlan(ctx context.Context, filePath string) (*contract.ImportSummary, error) {
	started := time.Now()
	summary, err := s.importPlan(ctx, filePath)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "plan_import",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"file": filePath},
		StartedAt: started,
	})
	return summary, err
}

func (s *planService) importPlan(ctx context.Context, filePath string) (*contract.ImportSummary, error) {
	schema, err := importer.LoadPlanSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}

	if errs := importer.ValidatePlanSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	warnings := importer.DependencyCycleWarnings(schema)

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txUnits := repository.NewSQLiteUnitRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txUnitActivities := repository.NewSQLiteUnitActivityRepo(tx)

		if err := txProjects.Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, u := range plan.Units {
			if err := txUnits.Create(ctx, u); err != nil {
				return fmt.Errorf("creating unit %q: %w", u.Name, err)
			}
		}
		// Parents precede children in the converted slice, so the parent_id
		// foreign key is always satisfied.
		for _, n := range plan.Activities {
			if err := txActivities.Create(ctx, n); err != nil {
				return fmt.Errorf("creating activity %q: %w", n.Name, err)
			}
		}
		for _, ua := range plan.UnitActivities {
			if err := txUnitActivities.Create(ctx, ua); err != nil {
				return fmt.Errorf("creating unit activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &contract.ImportSummary{
		ProjectID:      plan.Project.ID,
		ProjectShortID: plan.Project.ShortID,
		ProjectName:    plan.Project.Name,
		Units:          len(plan.Units),
		UnitActivities: len(plan.UnitActivities),
		Warnings:       warnings,
	}
	for _, n := range plan.Activities {
		switch n.Level {
		case domain.LevelPhase:
			summary.Phases++
		case domain.LevelStage:
			summary.Stages++
		case domain.LevelActivity:
			summary.Activities++
		}
	}
	return summary, nil
}

func (s *planService) Schedule(ctx context.Context, projectID string) (*contract.ScheduleResult, error) {
	started := time.Now()
	result, err := s.schedule(ctx, projectID)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "plan_schedule",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"project_id": projectID},
		StartedAt: started,
	})
	return result, err
}

func (s *planService) schedule(ctx context.Context, projectID string) (*contract.ScheduleResult, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	nodes, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("project %s has no plan to schedule", p.DisplayID())
	}

	tree := domain.BuildTree(nodes)
	if !tree.HasHierarchy() {
		return nil, fmt.Errorf("project %s has a flat plan without phases; scheduling requires a phase hierarchy", p.DisplayID())
	}

	input := schedule.PlanInput{
		Start:    p.StartDate,
		End:      p.EndDate,
		Calendar: schedule.NewCalendar(p.CalendarMode, p.Holidays),
	}
	for _, root := range tree.Roots {
		if root.Level != domain.LevelPhase {
			continue
		}
		phase := schedule.PhaseInput{
			ID:         root.ID,
			Name:       root.Name,
			Order:      root.OrderIndex,
			Percentage: root.Weight,
		}
		for _, st := range tree.Children[root.ID] {
			stage := schedule.StageInput{ID: st.ID, Name: st.Name, Order: st.OrderIndex}
			for _, a := range tree.Children[st.ID] {
				stage.Activities = append(stage.Activities, schedule.ActivityInput{
					ID:           a.ID,
					Name:         a.Name,
					Order:        a.OrderIndex,
					Weight:       a.Weight,
					DurationDays: a.DurationDays,
					DependsOn:    a.DependsOn,
				})
			}
			phase.Stages = append(phase.Stages, stage)
		}
		input.Phases = append(input.Phases, phase)
	}

	plan := schedule.Calculate(input)

	// Match scheduled output back to rows by ID; names are not unique across
	// phases (two phases may both have a "Walls" stage).
	byID := make(map[string]*domain.ActivityNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	result := &contract.ScheduleResult{ProjectID: p.ID}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		now := time.Now().UTC()

		persist := func(id string, start, end time.Time) error {
			n, ok := byID[id]
			if !ok {
				return fmt.Errorf("scheduled node %s not found in plan", id)
			}
			n.PlannedStart = &start
			n.PlannedEnd = &end
			n.UpdatedAt = now
			return txActivities.UpdateDates(ctx, n)
		}

		for _, ph := range plan.Phases {
			if err := persist(ph.ID, ph.Start, ph.End); err != nil {
				return err
			}
			result.Rows = append(result.Rows, contract.ScheduledRow{
				Name: ph.Name, Level: string(domain.LevelPhase), Phase: ph.Name,
				Start: ph.Start, End: ph.End, Days: ph.Days,
			})
			for _, st := range ph.Stages {
				if err := persist(st.ID, st.Start, st.End); err != nil {
					return err
				}
				result.Rows = append(result.Rows, contract.ScheduledRow{
					Name: st.Name, Level: string(domain.LevelStage), Phase: ph.Name,
					Start: st.Start, End: st.End,
				})
				for _, a := range st.Activities {
					if err := persist(a.ID, a.Start, a.End); err != nil {
						return err
					}
					result.Rows = append(result.Rows, contract.ScheduledRow{
						Name: a.Name, Level: string(domain.LevelActivity),
						Stage: st.Name, Phase: ph.Name,
						Start: a.Start, End: a.End, Days: a.Days,
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("plan validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
