package services

import (
	"context"

	"github.com/google/uuid"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

// InventoryLevelService exposes levels read-only. Only StockService
// changes on_hand.
type InventoryLevelService struct {
	repo ports.InventoryLevelRepository
}

func NewInventoryLevelService(repo ports.InventoryLevelRepository) *InventoryLevelService {
	return &InventoryLevelService{repo: repo}
}

func (s *InventoryLevelService) Get(ctx context.Context, id uuid.UUID) (*domain.InventoryLevel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InventoryLevelService) List(ctx context.Context, filter ports.LevelFilter) ([]*domain.InventoryLevel, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	return s.repo.List(ctx, filter)
}
