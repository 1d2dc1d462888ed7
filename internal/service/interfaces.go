package service

import (
	"context"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type UnitService interface {
	Create(ctx context.Context, u *domain.Unit) error
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Unit, error)
	Delete(ctx context.Context, id string) error
}

type PlanService interface {
	ImportPlan(ctx context.Context, filePath string) (*contract.ImportSummary, error)
	Schedule(ctx context.Context, projectID string) (*contract.ScheduleResult, error)
}

type MeasurementService interface {
	Submit(ctx context.Context, m *domain.Measurement) error
	SubmitByName(ctx context.Context, projectID, activityName, unitName string, progress float64, notes string) (*domain.Measurement, error)
	Review(ctx context.Context, req contract.ReviewRequest) (*contract.ReviewResult, error)
	ListPending(ctx context.Context, projectID string) ([]*domain.Measurement, error)
}

type ProgressService interface {
	Report(ctx context.Context, projectID string) (*contract.ProgressReport, error)
}
