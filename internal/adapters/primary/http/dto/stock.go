package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-service/internal/core/domain"
)

// ============================================================================
// Stock Move DTOs
// ============================================================================

type CreateStockMoveRequest struct {
	Type         string          `json:"type" binding:"required"`
	Product      uuid.UUID       `json:"product" binding:"required"`
	Qty          decimal.Decimal `json:"qty"`
	FromLocation *uuid.UUID      `json:"from_location"`
	ToLocation   *uuid.UUID      `json:"to_location"`
	Timestamp    *time.Time      `json:"timestamp"`
}

type StockMoveResponse struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Product      uuid.UUID  `json:"product"`
	ProductSKU   string     `json:"product_sku"`
	Qty          string     `json:"qty"`
	FromLocation *uuid.UUID `json:"from_location"`
	FromCode     *string    `json:"from_code"`
	ToLocation   *uuid.UUID `json:"to_location"`
	ToCode       *string    `json:"to_code"`
	Timestamp    time.Time  `json:"timestamp"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ListStockMovesResponse struct {
	Items      []StockMoveResponse `json:"items"`
	Total      int                 `json:"total"`
	PageSize   int                 `json:"page_size"`
	NextOffset int                 `json:"next_offset"`
}

func ToStockMoveResponse(m *domain.StockMove) StockMoveResponse {
	return StockMoveResponse{
		ID:           m.ID,
		Type:         string(m.Type),
		Product:      m.ProductID,
		ProductSKU:   m.ProductSKU,
		Qty:          Fixed(m.Qty),
		FromLocation: m.FromLocationID,
		FromCode:     domain.NullableText(m.FromCode),
		ToLocation:   m.ToLocationID,
		ToCode:       domain.NullableText(m.ToCode),
		Timestamp:    m.Timestamp,
		CreatedAt:    m.CreatedAt,
	}
}

// ============================================================================
// Stock Batch DTOs
// ============================================================================

type BatchLineRequest struct {
	Product uuid.UUID       `json:"product" binding:"required"`
	Qty     decimal.Decimal `json:"qty"`
}

type CreateStockBatchRequest struct {
	Type         string             `json:"type" binding:"required"`
	FromLocation *uuid.UUID         `json:"from_location"`
	ToLocation   *uuid.UUID         `json:"to_location"`
	Timestamp    *time.Time         `json:"timestamp"`
	Lines        []BatchLineRequest `json:"lines" binding:"dive"`
}

type StockMoveLineResponse struct {
	ID         uuid.UUID `json:"id"`
	Product    uuid.UUID `json:"product"`
	ProductSKU string    `json:"product_sku"`
	Qty        string    `json:"qty"`
}

type StockBatchResponse struct {
	ID           uuid.UUID               `json:"id"`
	Type         string                  `json:"type"`
	FromLocation *uuid.UUID              `json:"from_location"`
	FromCode     *string                 `json:"from_code"`
	ToLocation   *uuid.UUID              `json:"to_location"`
	ToCode       *string                 `json:"to_code"`
	Timestamp    time.Time               `json:"timestamp"`
	CreatedAt    time.Time               `json:"created_at"`
	Lines        []StockMoveLineResponse `json:"lines"`
}

type ListStockBatchesResponse struct {
	Items      []StockBatchResponse `json:"items"`
	Total      int                  `json:"total"`
	PageSize   int                  `json:"page_size"`
	NextOffset int                  `json:"next_offset"`
}

func ToBatchLines(lines []BatchLineRequest) []domain.BatchLineInput {
	out := make([]domain.BatchLineInput, 0, len(lines))
	for _, ln := range lines {
		out = append(out, domain.BatchLineInput{ProductID: ln.Product, Qty: ln.Qty})
	}
	return out
}

func ToStockBatchResponse(b *domain.StockMoveBatch) StockBatchResponse {
	lines := make([]StockMoveLineResponse, 0, len(b.Lines))
	for _, ln := range b.Lines {
		lines = append(lines, StockMoveLineResponse{
			ID:         ln.ID,
			Product:    ln.ProductID,
			ProductSKU: ln.ProductSKU,
			Qty:        Fixed(ln.Qty),
		})
	}
	return StockBatchResponse{
		ID:           b.ID,
		Type:         string(b.Type),
		FromLocation: b.FromLocationID,
		FromCode:     domain.NullableText(b.FromCode),
		ToLocation:   b.ToLocationID,
		ToCode:       domain.NullableText(b.ToCode),
		Timestamp:    b.Timestamp,
		CreatedAt:    b.CreatedAt,
		Lines:        lines,
	}
}
