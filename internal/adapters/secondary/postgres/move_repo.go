package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

const moveSelect = `
	SELECT m.id, m.type, m.product_id, m.qty, m.from_location_id, m.to_location_id,
		m.timestamp, m.created_at, p.sku, COALESCE(fl.code, ''), COALESCE(tl.code, '')
	FROM stock_moves m
	JOIN products p ON p.id = m.product_id
	LEFT JOIN locations fl ON fl.id = m.from_location_id
	LEFT JOIN locations tl ON tl.id = m.to_location_id
`

var moveOrdering = map[string]string{
	"timestamp": "m.timestamp",
	"qty":       "m.qty",
}

type moveRepo struct {
	pool *pgxpool.Pool
}

// NewStockMoveRepository creates a new StockMoveRepository
func NewStockMoveRepository(pool *pgxpool.Pool) output.StockMoveRepository {
	return &moveRepo{pool: pool}
}

func (r *moveRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMove, error) {
	move, err := scanMove(r.pool.QueryRow(ctx, moveSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMoveNotFound
		}
		return nil, fmt.Errorf("get stock move by id: %w", err)
	}
	return move, nil
}

func (r *moveRepo) List(ctx context.Context, filter output.MoveFilter) ([]*domain.StockMove, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, arg)
		argPos++
	}

	if filter.Type != "" {
		add("m.type = $%d", filter.Type)
	}
	if filter.ProductID != nil {
		add("m.product_id = $%d", *filter.ProductID)
	}
	if filter.FromLocationID != nil {
		add("m.from_location_id = $%d", *filter.FromLocationID)
	}
	if filter.ToLocationID != nil {
		add("m.to_location_id = $%d", *filter.ToLocationID)
	}
	if filter.ProductSKU != "" {
		add("p.sku ILIKE $%d", containsPattern(filter.ProductSKU))
	}
	if filter.FromCode != "" {
		add("fl.code ILIKE $%d", containsPattern(filter.FromCode))
	}
	if filter.ToCode != "" {
		add("tl.code ILIKE $%d", containsPattern(filter.ToCode))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.sku ILIKE $%d OR fl.code ILIKE $%d OR tl.code ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, containsPattern(filter.Search))
		argPos++
	}

	orderBy, err := orderClause(filter.Ordering, moveOrdering, "m.timestamp DESC, m.created_at DESC", "m.id")
	if err != nil {
		return nil, 0, err
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM stock_moves m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN locations fl ON fl.id = m.from_location_id
		LEFT JOIN locations tl ON tl.id = m.to_location_id
		WHERE %s
	`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock moves: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		moveSelect, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()

	var moves []*domain.StockMove
	for rows.Next() {
		move, err := scanMove(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock move row: %w", err)
		}
		moves = append(moves, move)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock move rows: %w", err)
	}

	return moves, total, nil
}

func scanMove(row pgx.Row) (*domain.StockMove, error) {
	m := &domain.StockMove{}
	var moveType string
	err := row.Scan(
		&m.ID, &moveType, &m.ProductID, &m.Qty, &m.FromLocationID, &m.ToLocationID,
		&m.Timestamp, &m.CreatedAt, &m.ProductSKU, &m.FromCode, &m.ToCode,
	)
	if err != nil {
		return nil, err
	}
	m.Type = domain.MoveType(moveType)
	return m, nil
}
