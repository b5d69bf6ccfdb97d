package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-service/internal/core/domain"
)

type LevelFilter struct {
	ProductID    *uuid.UUID
	LocationID   *uuid.UUID
	ProductSKU   string
	LocationCode string
	Search       string
	Ordering     string
	Limit        int
	Offset       int
}

type MoveFilter struct {
	Type           string
	ProductID      *uuid.UUID
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	ProductSKU     string
	FromCode       string
	ToCode         string
	Search         string
	Ordering       string
	Limit          int
	Offset         int
}

type BatchFilter struct {
	Type           string
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	FromCode       string
	ToCode         string
	Ordering       string
	Limit          int
	Offset         int
}

// ============================================================================
// Read Side
// ============================================================================

type InventoryLevelRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLevel, error)
	List(ctx context.Context, filter LevelFilter) ([]*domain.InventoryLevel, int, error)
}

type StockMoveRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMove, error)
	List(ctx context.Context, filter MoveFilter) ([]*domain.StockMove, int, error)
}

type StockBatchRepository interface {
	// GetByID loads the batch together with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error)
	List(ctx context.Context, filter BatchFilter) ([]*domain.StockMoveBatch, int, error)
}

// ReorderRepository aggregates the demand and stock figures reorder
// suggestions are computed from.
type ReorderRepository interface {
	// OutboundSince sums OUTBOUND quantities per product from single moves
	// and batch lines with a timestamp at or after since.
	OutboundSince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error)
	// OnHandTotals sums on_hand per product across all locations.
	OnHandTotals(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
}

// ============================================================================
// Write Side
// ============================================================================

// StockLedger runs stock mutations inside a single database transaction.
type StockLedger interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error
}

// StockTx is the set of operations available inside a ledger transaction.
type StockTx interface {
	// EnsureProducts fails with domain.ErrProductNotFound if any id is unknown.
	EnsureProducts(ctx context.Context, ids []uuid.UUID) error
	// EnsureLocations fails with domain.ErrLocationNotFound if any id is unknown.
	EnsureLocations(ctx context.Context, ids []uuid.UUID) error

	// LockLevels creates missing level rows with on_hand 0, locks every
	// requested row in key order and returns the current on_hand values.
	LockLevels(ctx context.Context, keys []domain.LevelKey) (map[domain.LevelKey]decimal.Decimal, error)
	// AdjustLevel adds delta (possibly negative) to a locked level.
	AdjustLevel(ctx context.Context, key domain.LevelKey, delta decimal.Decimal) error

	InsertMove(ctx context.Context, move *domain.StockMove) error
	LockMove(ctx context.Context, id uuid.UUID) (*domain.StockMove, error)
	DeleteMove(ctx context.Context, id uuid.UUID) error

	// InsertBatch stores the batch and all of its lines.
	InsertBatch(ctx context.Context, batch *domain.StockMoveBatch) error
	LockBatch(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error
}
