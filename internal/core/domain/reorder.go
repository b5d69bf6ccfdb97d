package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReorderParams struct {
	Days         int
	CoverageDays int
	MinQty       decimal.Decimal
}

type ReorderSuggestion struct {
	ProductID      uuid.UUID       `json:"product"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	AvgDailyDemand decimal.Decimal `json:"avg_daily_demand"`
	OnHandTotal    decimal.Decimal `json:"on_hand_total"`
	SuggestedQty   decimal.Decimal `json:"suggested_qty"`
	WindowDays     int             `json:"window_days"`
	CoverageDays   int             `json:"coverage_days"`
}
