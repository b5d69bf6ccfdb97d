package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Catalog Errors
// ============================================================================

// Not found errors
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrLevelNotFound    = errors.New("inventory level not found")
)

// Conflict errors
var (
	ErrSKUConflict          = errors.New("product with this sku already exists")
	ErrLocationCodeConflict = errors.New("location with this code already exists")
	ErrProductInUse         = errors.New("cannot delete product: it is referenced by existing stock data (moves, batch lines, or inventory levels). Reverse/delete those first")
	ErrLocationInUse        = errors.New("cannot delete location: it is referenced by existing stock data. Reverse moves or move stock first")
)

// Validation errors
var (
	ErrInvalidSKU          = errors.New("sku is required")
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidLocationCode = errors.New("location code is required")
	ErrInvalidLocationName = errors.New("location name is required")
	ErrNegativePrice       = errors.New("cost and sales price must not be negative")
	ErrInvalidOrdering     = errors.New("invalid ordering field")
	ErrFieldTooLong        = errors.New("field exceeds maximum length")
)

// ============================================================================
// Stock Errors
// ============================================================================

// ErrStock is the parent of every rule violation raised while applying or
// reversing stock movements.
var ErrStock = errors.New("stock error")

var (
	ErrMoveNotFound  = errors.New("stock move not found")
	ErrBatchNotFound = errors.New("stock batch not found")
)

var (
	ErrNonPositiveQty       = stockError("quantity must be positive")
	ErrQtyPrecision         = stockError("quantity must have at most 2 decimal places")
	ErrQtyTooLarge          = stockError("quantity must have at most 12 digits before the decimal point")
	ErrLevelOverflow        = stockError("inventory level would exceed the maximum quantity")
	ErrUnknownMoveType      = stockError("unknown move type")
	ErrInboundNeedsDest     = stockError("INBOUND moves require a destination (to_location)")
	ErrOutboundNeedsSource  = stockError("OUTBOUND moves require a source (from_location)")
	ErrTransferNeedsBoth    = stockError("TRANSFER moves require both source and destination")
	ErrSameLocation         = stockError("source and destination locations must differ")
	ErrInsufficientStock    = stockError("insufficient stock at source location")
	ErrEmptyBatch           = stockError("at least one line is required")
	ErrReverseMissingDest   = stockError("cannot reverse: missing destination")
	ErrReverseMissingSource = stockError("cannot reverse: missing source")
	ErrReverseNegative      = stockError("cannot reverse: would go negative at destination")
)

// Moves and batches are never edited in place.
var (
	ErrMoveImmutable  = errors.New("stock moves are immutable; delete and recreate if needed")
	ErrBatchImmutable = errors.New("batches are immutable; delete to reverse")
)

// StockError is a stock rule violation. Every StockError matches ErrStock.
type StockError struct {
	msg string
}

func (e *StockError) Error() string { return e.msg }

func (e *StockError) Is(target error) bool { return target == ErrStock }

func stockError(msg string) error {
	return &StockError{msg: msg}
}

// InsufficientStockError names the product and location that blocked an
// operation. It matches ErrInsufficientStock and ErrStock.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Reversal   bool
}

func (e *InsufficientStockError) Error() string {
	if e.Reversal {
		return fmt.Sprintf("cannot reverse: would go negative at destination for product id=%s", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock at source for product id=%s", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	if e.Reversal {
		return target == ErrReverseNegative || target == ErrStock
	}
	return target == ErrInsufficientStock || target == ErrStock
}

// ============================================================================
// Reference Errors
// ============================================================================

// ReferencedError reports how many rows still depend on an entity whose
// deletion was refused.
type ReferencedError struct {
	Err        error
	References map[string]int
}

func (e *ReferencedError) Error() string { return e.Err.Error() }

func (e *ReferencedError) Unwrap() error { return e.Err }

// ============================================================================
// User Errors
// ============================================================================

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this username already exists")
	ErrInvalidUsername    = errors.New("username is required")
	ErrInvalidPassword    = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ============================================================================
// Import Errors
// ============================================================================

var (
	ErrImportFileNotFound   = errors.New("file not found")
	ErrImportMissingColumns = errors.New("csv header is missing required columns")
	ErrImportInvalidRow     = errors.New("invalid csv row")
)
