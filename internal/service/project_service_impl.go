package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}
	if p.CalendarMode == "" {
		p.CalendarMode = domain.BusinessDays
	}
	if !domain.ValidCalendarModes[string(p.CalendarMode)] {
		return fmt.Errorf("invalid calendar mode %q (valid: BUSINESS_DAYS, CALENDAR_DAYS)", p.CalendarMode)
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// Resolve looks a project up by short ID first, then by full ID.
func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Pause(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.ProjectPaused, func(status domain.ProjectStatus) error {
		if status == domain.ProjectCompleted || status == domain.ProjectCancelled {
			return fmt.Errorf("cannot pause a %s project", status)
		}
		return nil
	})
}

func (s *projectService) Resume(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.ProjectInProgress, func(status domain.ProjectStatus) error {
		if status != domain.ProjectPaused {
			return fmt.Errorf("only paused projects can be resumed (status is %s)", status)
		}
		return nil
	})
}

func (s *projectService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.ProjectCancelled, func(status domain.ProjectStatus) error {
		if status == domain.ProjectCompleted {
			return fmt.Errorf("cannot cancel a completed project")
		}
		return nil
	})
}

func (s *projectService) transition(ctx context.Context, id string, to domain.ProjectStatus, guard func(domain.ProjectStatus) error) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guard(p.Status); err != nil {
		return err
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) error {
	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectCancelled && p.Status != domain.ProjectCompleted {
			return fmt.Errorf("project must be cancelled or completed before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}
