package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MoveType string

const (
	MoveTypeInbound  MoveType = "INBOUND"
	MoveTypeOutbound MoveType = "OUTBOUND"
	MoveTypeTransfer MoveType = "TRANSFER"
)

func (t MoveType) Valid() bool {
	switch t {
	case MoveTypeInbound, MoveTypeOutbound, MoveTypeTransfer:
		return true
	}
	return false
}

// TakesFromSource reports whether the move type consumes stock at the source.
func (t MoveType) TakesFromSource() bool {
	return t == MoveTypeOutbound || t == MoveTypeTransfer
}

// AddsToDest reports whether the move type adds stock at the destination.
func (t MoveType) AddsToDest() bool {
	return t == MoveTypeInbound || t == MoveTypeTransfer
}

// ValidateRoute checks the source/destination rules of a move type.
func ValidateRoute(t MoveType, from, to *uuid.UUID) error {
	switch t {
	case MoveTypeInbound:
		if to == nil {
			return ErrInboundNeedsDest
		}
	case MoveTypeOutbound:
		if from == nil {
			return ErrOutboundNeedsSource
		}
	case MoveTypeTransfer:
		if from == nil || to == nil {
			return ErrTransferNeedsBoth
		}
		if *from == *to {
			return ErrSameLocation
		}
	default:
		return ErrUnknownMoveType
	}
	return nil
}

// MaxQty is the largest quantity a numeric(14,2) column holds.
var MaxQty = decimal.New(1, 12).Sub(decimal.New(1, -2))

// ValidateQty enforces a positive quantity with at most two decimals and
// twelve integer digits.
func ValidateQty(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return ErrNonPositiveQty
	}
	if !qty.Equal(qty.Truncate(2)) {
		return ErrQtyPrecision
	}
	if qty.GreaterThan(MaxQty) {
		return ErrQtyTooLarge
	}
	return nil
}

type InventoryLevel struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	ProductSKU   string          `json:"product_sku,omitempty"`
	LocationCode string          `json:"location_code,omitempty"`
}

// LevelKey identifies the inventory level of a product at a location.
type LevelKey struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
}

// Less orders keys by product then location. Locks are always taken in
// this order.
func (k LevelKey) Less(o LevelKey) bool {
	if c := compareUUID(k.ProductID, o.ProductID); c != 0 {
		return c < 0
	}
	return compareUUID(k.LocationID, o.LocationID) < 0
}

// SortLevelKeys returns keys deduplicated and in lock order.
func SortLevelKeys(keys []LevelKey) []LevelKey {
	out := make([]LevelKey, 0, len(keys))
	seen := make(map[LevelKey]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

type StockMove struct {
	ID             uuid.UUID       `json:"id"`
	Type           MoveType        `json:"type"`
	ProductID      uuid.UUID       `json:"product_id"`
	Qty            decimal.Decimal `json:"qty"`
	FromLocationID *uuid.UUID      `json:"from_location_id"`
	ToLocationID   *uuid.UUID      `json:"to_location_id"`
	Timestamp      time.Time       `json:"timestamp"`
	CreatedAt      time.Time       `json:"created_at"`

	// Computed fields
	ProductSKU string `json:"product_sku,omitempty"`
	FromCode   string `json:"from_code,omitempty"`
	ToCode     string `json:"to_code,omitempty"`
}

type StockMoveBatch struct {
	ID             uuid.UUID        `json:"id"`
	Type           MoveType         `json:"type"`
	FromLocationID *uuid.UUID       `json:"from_location_id"`
	ToLocationID   *uuid.UUID       `json:"to_location_id"`
	Timestamp      time.Time        `json:"timestamp"`
	CreatedAt      time.Time        `json:"created_at"`
	Lines          []*StockMoveLine `json:"lines"`

	// Computed fields
	FromCode string `json:"from_code,omitempty"`
	ToCode   string `json:"to_code,omitempty"`
}

type StockMoveLine struct {
	ID         uuid.UUID       `json:"id"`
	BatchID    uuid.UUID       `json:"batch_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Qty        decimal.Decimal `json:"qty"`
	ProductSKU string          `json:"product_sku,omitempty"`
}

// BatchLineInput is one requested line of a batch before consolidation.
type BatchLineInput struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
}
