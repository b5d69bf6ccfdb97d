package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const batchSelect = `
	SELECT b.id, b.type, b.from_location_id, b.to_location_id, b.timestamp, b.created_at,
		COALESCE(fl.code, ''), COALESCE(tl.code, '')
	FROM stock_move_batches b
	LEFT JOIN locations fl ON fl.id = b.from_location_id
	LEFT JOIN locations tl ON tl.id = b.to_location_id
`

var batchOrdering = map[string]string{
	"timestamp":  "b.timestamp",
	"created_at": "b.created_at",
}

type batchRepo struct {
	pool *pgxpool.Pool
}

// NewStockBatchRepository creates a new StockBatchRepository
func NewStockBatchRepository(pool *pgxpool.Pool) output.StockBatchRepository {
	return &batchRepo{pool: pool}
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error) {
	return getBatch(ctx, r.pool, id, false)
}

func (r *batchRepo) List(ctx context.Context, filter output.BatchFilter) ([]*domain.StockMoveBatch, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, arg)
		argPos++
	}

	if filter.Type != "" {
		add("b.type = $%d", filter.Type)
	}
	if filter.FromLocationID != nil {
		add("b.from_location_id = $%d", *filter.FromLocationID)
	}
	if filter.ToLocationID != nil {
		add("b.to_location_id = $%d", *filter.ToLocationID)
	}
	if filter.FromCode != "" {
		add("fl.code ILIKE $%d", containsPattern(filter.FromCode))
	}
	if filter.ToCode != "" {
		add("tl.code ILIKE $%d", containsPattern(filter.ToCode))
	}

	orderBy, err := orderClause(filter.Ordering, batchOrdering, "b.timestamp DESC", "b.id")
	if err != nil {
		return nil, 0, err
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM stock_move_batches b
		LEFT JOIN locations fl ON fl.id = b.from_location_id
		LEFT JOIN locations tl ON tl.id = b.to_location_id
		WHERE %s
	`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock batches: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		batchSelect, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.StockMoveBatch
	byID := make(map[uuid.UUID]*domain.StockMoveBatch)
	var ids []uuid.UUID
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock batch row: %w", err)
		}
		batches = append(batches, b)
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock batch rows: %w", err)
	}
	rows.Close()

	if len(ids) > 0 {
		lines, err := loadLines(ctx, r.pool, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, ln := range lines {
			b := byID[ln.BatchID]
			b.Lines = append(b.Lines, ln)
		}
	}

	return batches, total, nil
}

// getBatch loads a batch with its lines. forUpdate locks the batch row.
func getBatch(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.StockMoveBatch, error) {
	query := batchSelect + ` WHERE b.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF b`
	}

	b, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get stock batch by id: %w", err)
	}

	lines, err := loadLines(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	b.Lines = lines
	return b, nil
}

func loadLines(ctx context.Context, q querier, batchIDs []uuid.UUID) ([]*domain.StockMoveLine, error) {
	query := `
		SELECT ln.id, ln.batch_id, ln.product_id, ln.qty, p.sku
		FROM stock_move_lines ln
		JOIN products p ON p.id = ln.product_id
		WHERE ln.batch_id = ANY($1)
		ORDER BY p.sku, ln.id
	`

	rows, err := q.Query(ctx, query, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("load stock batch lines: %w", err)
	}
	defer rows.Close()

	lines := []*domain.StockMoveLine{}
	for rows.Next() {
		ln := &domain.StockMoveLine{}
		if err := rows.Scan(&ln.ID, &ln.BatchID, &ln.ProductID, &ln.Qty, &ln.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan stock batch line: %w", err)
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock batch lines: %w", err)
	}
	return lines, nil
}

func scanBatch(row pgx.Row) (*domain.StockMoveBatch, error) {
	b := &domain.StockMoveBatch{Lines: []*domain.StockMoveLine{}}
	var moveType string
	err := row.Scan(
		&b.ID, &moveType, &b.FromLocationID, &b.ToLocationID, &b.Timestamp, &b.CreatedAt,
		&b.FromCode, &b.ToCode,
	)
	if err != nil {
		return nil, err
	}
	b.Type = domain.MoveType(moveType)
	return b, nil
}
