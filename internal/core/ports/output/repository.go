package ports

import (
	"context"

	"github.com/google/uuid"

	"inventory-service/internal/core/domain"
)

type ProductFilter struct {
	Search   string
	Category string
	IsActive *bool
	Ordering string
	Limit    int
	Offset   int
}

type LocationFilter struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// ============================================================================
// Catalog Repositories
// ============================================================================

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	// Delete returns domain.ErrProductInUse when stock data still refers to the product.
	Delete(ctx context.Context, id uuid.UUID) error
	// References counts the rows that depend on the product.
	References(ctx context.Context, id uuid.UUID) (map[string]int, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	// UpsertBySKU inserts the product or updates the one sharing its sku.
	UpsertBySKU(ctx context.Context, product *domain.Product) (created bool, err error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	Update(ctx context.Context, location *domain.Location) error
	// Delete returns domain.ErrLocationInUse when stock data still refers to the location.
	Delete(ctx context.Context, id uuid.UUID) error
	References(ctx context.Context, id uuid.UUID) (map[string]int, error)
	List(ctx context.Context, filter LocationFilter) ([]*domain.Location, int, error)
}

// ============================================================================
// User Repository
// ============================================================================

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
