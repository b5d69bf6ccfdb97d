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

const productColumns = `id, created_at, updated_at, sku, name, barcode, category, cost, sales_price, is_active`

var productOrdering = map[string]string{
	"sku":         "sku",
	"name":        "name",
	"sales_price": "sales_price",
	"cost":        "cost",
}

type productRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(pool *pgxpool.Pool) output.ProductRepository {
	return &productRepo{pool: pool}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products
			(id, created_at, updated_at, sku, name, barcode, category, cost, sales_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.CreatedAt, p.UpdatedAt,
		p.SKU, p.Name, p.Barcode, p.Category, p.Cost, p.SalesPrice, p.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUConflict
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return out, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET sku = $1, name = $2, barcode = $3, category = $4,
			cost = $5, sales_price = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.pool.Exec(ctx, query,
		p.SKU, p.Name, p.Barcode, p.Category, p.Cost, p.SalesPrice, p.IsActive, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUConflict
		}
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Referenced by moves or batch lines. Levels cascade.
			return domain.ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) References(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM stock_moves WHERE product_id = $1),
			(SELECT COUNT(*) FROM stock_move_lines WHERE product_id = $1),
			(SELECT COUNT(DISTINCT batch_id) FROM stock_move_lines WHERE product_id = $1),
			(SELECT COUNT(*) FROM inventory_levels WHERE product_id = $1)
	`

	var moves, lines, batches, levels int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&moves, &lines, &batches, &levels); err != nil {
		return nil, fmt.Errorf("count product references: %w", err)
	}
	return map[string]int{
		"stock_moves":       moves,
		"stock_batch_lines": lines,
		"stock_batches":     batches,
		"inventory_levels":  levels,
	}, nil
}

func (r *productRepo) List(ctx context.Context, filter output.ProductFilter) ([]*domain.Product, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(sku ILIKE $%d OR name ILIKE $%d OR barcode ILIKE $%d OR category ILIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, containsPattern(filter.Search))
		argPos++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filter.IsActive)
		argPos++
	}

	orderBy, err := orderClause(filter.Ordering, productOrdering, "sku ASC", "id")
	if err != nil {
		return nil, 0, err
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// UpsertBySKU inserts the product or overwrites the row with the same sku.
// xmax is zero only for freshly inserted tuples.
func (r *productRepo) UpsertBySKU(ctx context.Context, p *domain.Product) (bool, error) {
	query := `
		INSERT INTO products
			(id, created_at, updated_at, sku, name, barcode, category, cost, sales_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			barcode = EXCLUDED.barcode,
			category = EXCLUDED.category,
			cost = EXCLUDED.cost,
			sales_price = EXCLUDED.sales_price,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.CreatedAt, p.UpdatedAt,
		p.SKU, p.Name, p.Barcode, p.Category, p.Cost, p.SalesPrice, p.IsActive,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert product %s: %w", p.SKU, err)
	}
	return inserted, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
		&p.SKU, &p.Name, &p.Barcode, &p.Category,
		&p.Cost, &p.SalesPrice, &p.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
