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

const levelSelect = `
	SELECT il.id, il.product_id, il.location_id, il.on_hand, p.sku, l.code
	FROM inventory_levels il
	JOIN products p ON p.id = il.product_id
	JOIN locations l ON l.id = il.location_id
`

var levelOrdering = map[string]string{
	"on_hand":        "il.on_hand",
	"product__sku":   "p.sku",
	"product_sku":    "p.sku",
	"location__code": "l.code",
	"location_code":  "l.code",
}

type levelRepo struct {
	pool *pgxpool.Pool
}

// NewInventoryLevelRepository creates a new InventoryLevelRepository
func NewInventoryLevelRepository(pool *pgxpool.Pool) output.InventoryLevelRepository {
	return &levelRepo{pool: pool}
}

func (r *levelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLevel, error) {
	level, err := scanLevel(r.pool.QueryRow(ctx, levelSelect+` WHERE il.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLevelNotFound
		}
		return nil, fmt.Errorf("get inventory level by id: %w", err)
	}
	return level, nil
}

func (r *levelRepo) List(ctx context.Context, filter output.LevelFilter) ([]*domain.InventoryLevel, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("il.product_id = $%d", argPos))
		args = append(args, *filter.ProductID)
		argPos++
	}
	if filter.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("il.location_id = $%d", argPos))
		args = append(args, *filter.LocationID)
		argPos++
	}
	if filter.ProductSKU != "" {
		conditions = append(conditions, fmt.Sprintf("p.sku ILIKE $%d", argPos))
		args = append(args, containsPattern(filter.ProductSKU))
		argPos++
	}
	if filter.LocationCode != "" {
		conditions = append(conditions, fmt.Sprintf("l.code ILIKE $%d", argPos))
		args = append(args, containsPattern(filter.LocationCode))
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.sku ILIKE $%d OR l.code ILIKE $%d)", argPos, argPos))
		args = append(args, containsPattern(filter.Search))
		argPos++
	}

	orderBy, err := orderClause(filter.Ordering, levelOrdering, "p.sku ASC, l.code ASC", "il.id")
	if err != nil {
		return nil, 0, err
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM inventory_levels il
		JOIN products p ON p.id = il.product_id
		JOIN locations l ON l.id = il.location_id
		WHERE %s
	`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory levels: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		levelSelect, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory levels: %w", err)
	}
	defer rows.Close()

	var levels []*domain.InventoryLevel
	for rows.Next() {
		level, err := scanLevel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inventory level row: %w", err)
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inventory level rows: %w", err)
	}

	return levels, total, nil
}

func scanLevel(row pgx.Row) (*domain.InventoryLevel, error) {
	level := &domain.InventoryLevel{}
	err := row.Scan(
		&level.ID, &level.ProductID, &level.LocationID, &level.OnHand,
		&level.ProductSKU, &level.LocationCode,
	)
	if err != nil {
		return nil, err
	}
	return level, nil
}
