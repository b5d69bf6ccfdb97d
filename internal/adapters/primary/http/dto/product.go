package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-service/internal/core/domain"
)

// ============================================================================
// Product DTOs
// ============================================================================

type CreateProductRequest struct {
	SKU        string          `json:"sku" binding:"required,max=64"`
	Name       string          `json:"name" binding:"required,max=255"`
	Barcode    *string         `json:"barcode"`
	Category   *string         `json:"category"`
	Cost       decimal.Decimal `json:"cost"`
	SalesPrice decimal.Decimal `json:"sales_price"`
	IsActive   *bool           `json:"is_active"`
}

type UpdateProductRequest struct {
	SKU        *string          `json:"sku"`
	Name       *string          `json:"name"`
	Barcode    *string          `json:"barcode"`
	Category   *string          `json:"category"`
	Cost       *decimal.Decimal `json:"cost"`
	SalesPrice *decimal.Decimal `json:"sales_price"`
	IsActive   *bool            `json:"is_active"`
}

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Barcode    *string   `json:"barcode"`
	Category   *string   `json:"category"`
	Cost       string    `json:"cost"`
	SalesPrice string    `json:"sales_price"`
	IsActive   bool      `json:"is_active"`
}

type ListProductsResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	PageSize   int               `json:"page_size"`
	NextOffset int               `json:"next_offset"`
}

type ImportProductsResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		SKU:        p.SKU,
		Name:       p.Name,
		Barcode:    p.Barcode,
		Category:   p.Category,
		Cost:       Fixed(p.Cost),
		SalesPrice: Fixed(p.SalesPrice),
		IsActive:   p.IsActive,
	}
}

// Fixed renders a decimal with exactly two fractional digits.
func Fixed(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}
