package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

type LocationService struct {
	repo ports.LocationRepository
}

func NewLocationService(repo ports.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) Create(ctx context.Context, code, name string) (*domain.Location, error) {
	now := time.Now()
	location := &domain.Location{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Code:      code,
		Name:      name,
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, location.ID)
}

func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LocationService) List(ctx context.Context, filter ports.LocationFilter) ([]*domain.Location, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	return s.repo.List(ctx, filter)
}

func (s *LocationService) Update(ctx context.Context, id uuid.UUID, code, name *string) (*domain.Location, error) {
	location, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if code != nil {
		location.Code = *code
	}
	if name != nil {
		location.Name = *name
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, location); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrLocationInUse) {
		refs, refErr := s.repo.References(ctx, id)
		if refErr != nil {
			return refErr
		}
		return &domain.ReferencedError{Err: domain.ErrLocationInUse, References: refs}
	}
	return err
}
