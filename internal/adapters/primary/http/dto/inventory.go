package dto

import (
	"github.com/google/uuid"

	"inventory-service/internal/core/domain"
)

// ============================================================================
// Inventory Level DTOs
// ============================================================================

type InventoryLevelResponse struct {
	ID           uuid.UUID `json:"id"`
	Product      uuid.UUID `json:"product"`
	ProductSKU   string    `json:"product_sku"`
	Location     uuid.UUID `json:"location"`
	LocationCode string    `json:"location_code"`
	OnHand       string    `json:"on_hand"`
}

type ListInventoryLevelsResponse struct {
	Items      []InventoryLevelResponse `json:"items"`
	Total      int                      `json:"total"`
	PageSize   int                      `json:"page_size"`
	NextOffset int                      `json:"next_offset"`
}

func ToInventoryLevelResponse(l *domain.InventoryLevel) InventoryLevelResponse {
	return InventoryLevelResponse{
		ID:           l.ID,
		Product:      l.ProductID,
		ProductSKU:   l.ProductSKU,
		Location:     l.LocationID,
		LocationCode: l.LocationCode,
		OnHand:       Fixed(l.OnHand),
	}
}

// ============================================================================
// Reorder Suggestion DTOs
// ============================================================================

type ReorderSuggestionResponse struct {
	Product        uuid.UUID `json:"product"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	AvgDailyDemand string    `json:"avg_daily_demand"`
	OnHandTotal    string    `json:"on_hand_total"`
	SuggestedQty   string    `json:"suggested_qty"`
	WindowDays     int       `json:"window_days"`
	CoverageDays   int       `json:"coverage_days"`
}

func ToReorderSuggestionResponse(s *domain.ReorderSuggestion) ReorderSuggestionResponse {
	return ReorderSuggestionResponse{
		Product:        s.ProductID,
		SKU:            s.SKU,
		Name:           s.Name,
		AvgDailyDemand: Fixed(s.AvgDailyDemand),
		OnHandTotal:    Fixed(s.OnHandTotal),
		SuggestedQty:   Fixed(s.SuggestedQty),
		WindowDays:     s.WindowDays,
		CoverageDays:   s.CoverageDays,
	}
}
