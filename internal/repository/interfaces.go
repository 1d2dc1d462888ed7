package repository

import (
	"context"
	"errors"

	"github.com/mfigueroa/sitework/internal/domain"
)

// ErrNotFound is wrapped by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type UnitRepo interface {
	Create(ctx context.Context, u *domain.Unit) error
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Unit, error)
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, n *domain.ActivityNode) error
	GetByID(ctx context.Context, id string) (*domain.ActivityNode, error)
	GetByName(ctx context.Context, projectID, name string) (*domain.ActivityNode, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ActivityNode, error)
	UpdateDates(ctx context.Context, n *domain.ActivityNode) error
	UpdateStatus(ctx context.Context, id string, status domain.ActivityStatus) error
	Delete(ctx context.Context, id string) error
}

type UnitActivityRepo interface {
	Create(ctx context.Context, ua *domain.UnitActivity) error
	GetByID(ctx context.Context, id string) (*domain.UnitActivity, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.UnitActivity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.UnitActivity, error)
	Update(ctx context.Context, ua *domain.UnitActivity) error
}

type MeasurementRepo interface {
	Create(ctx context.Context, m *domain.Measurement) error
	GetByID(ctx context.Context, id string) (*domain.Measurement, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.Measurement, error)
	ListPendingByProject(ctx context.Context, projectID string) ([]*domain.Measurement, error)
	Update(ctx context.Context, m *domain.Measurement) error
}
