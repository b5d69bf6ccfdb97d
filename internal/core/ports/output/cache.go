package ports

import (
	"context"

	"inventory-service/internal/core/domain"
)

// SuggestionCache stores computed reorder suggestions.
type SuggestionCache interface {
	// Key resolves the cache key for params under the current generation.
	// Resolve it before reading stock so a concurrent Invalidate retires it.
	Key(ctx context.Context, params domain.ReorderParams) (string, error)
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (rows []*domain.ReorderSuggestion, ok bool, err error)
	Set(ctx context.Context, key string, rows []*domain.ReorderSuggestion) error
	// Invalidate drops every cached suggestion set.
	Invalidate(ctx context.Context) error
}
