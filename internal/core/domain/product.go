package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxSKULength      = 64
	MaxNameLength     = 255
	MaxBarcodeLength  = 64
	MaxCategoryLength = 255
)

type Product struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Barcode    *string         `json:"barcode"`
	Category   *string         `json:"category"`
	Cost       decimal.Decimal `json:"cost"`
	SalesPrice decimal.Decimal `json:"sales_price"`
	IsActive   bool            `json:"is_active"`
}

// Validate checks the fields a product must carry before it is stored.
func (p *Product) Validate() error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	if p.SKU == "" {
		return ErrInvalidSKU
	}
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if len(p.SKU) > MaxSKULength || len(p.Name) > MaxNameLength {
		return ErrFieldTooLong
	}
	if p.Barcode != nil && len(*p.Barcode) > MaxBarcodeLength {
		return ErrFieldTooLong
	}
	if p.Category != nil && len(*p.Category) > MaxCategoryLength {
		return ErrFieldTooLong
	}
	if p.Cost.IsNegative() || p.SalesPrice.IsNegative() {
		return ErrNegativePrice
	}
	p.Cost = p.Cost.Round(2)
	p.SalesPrice = p.SalesPrice.Round(2)
	return nil
}

// NullableText trims s and returns nil when nothing is left.
func NullableText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
