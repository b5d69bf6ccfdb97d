package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	output "inventory-service/internal/core/ports/output"
)

type reorderRepo struct {
	pool *pgxpool.Pool
}

// NewReorderRepository creates a new ReorderRepository
func NewReorderRepository(pool *pgxpool.Pool) output.ReorderRepository {
	return &reorderRepo{pool: pool}
}

func (r *reorderRepo) OutboundSince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT product_id, SUM(qty)
		FROM (
			SELECT product_id, qty
			FROM stock_moves
			WHERE type = 'OUTBOUND' AND timestamp >= $1
			UNION ALL
			SELECT ln.product_id, ln.qty
			FROM stock_move_lines ln
			JOIN stock_move_batches b ON b.id = ln.batch_id
			WHERE b.type = 'OUTBOUND' AND b.timestamp >= $1
		) demand
		GROUP BY product_id
	`
	return r.sumByProduct(ctx, "outbound demand", query, since)
}

func (r *reorderRepo) OnHandTotals(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	query := `SELECT product_id, SUM(on_hand) FROM inventory_levels GROUP BY product_id`
	return r.sumByProduct(ctx, "on hand totals", query)
}

func (r *reorderRepo) sumByProduct(ctx context.Context, what, query string, args ...any) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var id uuid.UUID
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out[id] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}
