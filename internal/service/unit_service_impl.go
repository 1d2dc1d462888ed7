package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/repository"
)

type unitService struct {
	units repository.UnitRepo
}

func NewUnitService(units repository.UnitRepo) UnitService {
	return &unitService{units: units}
}

func (s *unitService) Create(ctx context.Context, u *domain.Unit) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.units.Create(ctx, u)
}

func (s *unitService) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	return s.units.GetByID(ctx, id)
}

func (s *unitService) ListByProject(ctx context.Context, projectID string) ([]*domain.Unit, error) {
	return s.units.ListByProject(ctx, projectID)
}

func (s *unitService) Delete(ctx context.Context, id string) error {
	return s.units.Delete(ctx, id)
}
