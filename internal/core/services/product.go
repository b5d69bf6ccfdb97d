package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

type ProductService struct {
	repo ports.ProductRepository
}

func NewProductService(repo ports.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductRequest contains parameters for creating a product
type CreateProductRequest struct {
	SKU        string
	Name       string
	Barcode    *string
	Category   *string
	Cost       decimal.Decimal
	SalesPrice decimal.Decimal
	IsActive   *bool
}

func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:         uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
		SKU:        req.SKU,
		Name:       req.Name,
		Cost:       req.Cost,
		SalesPrice: req.SalesPrice,
		IsActive:   true,
	}
	if req.Barcode != nil {
		product.Barcode = domain.NullableText(*req.Barcode)
	}
	if req.Category != nil {
		product.Category = domain.NullableText(*req.Category)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, product.ID)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	return s.repo.List(ctx, filter)
}

// UpdateProductRequest carries the fields of a partial update. Nil fields
// are left untouched.
type UpdateProductRequest struct {
	SKU        *string
	Name       *string
	Barcode    *string
	Category   *string
	Cost       *decimal.Decimal
	SalesPrice *decimal.Decimal
	IsActive   *bool
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Barcode != nil {
		product.Barcode = domain.NullableText(*req.Barcode)
	}
	if req.Category != nil {
		product.Category = domain.NullableText(*req.Category)
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.SalesPrice != nil {
		product.SalesPrice = *req.SalesPrice
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a product. When stock data still refers to it the
// returned *domain.ReferencedError lists the dependent row counts.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrProductInUse) {
		refs, refErr := s.repo.References(ctx, id)
		if refErr != nil {
			return refErr
		}
		return &domain.ReferencedError{Err: domain.ErrProductInUse, References: refs}
	}
	return err
}
