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

const locationColumns = `id, created_at, updated_at, code, name`

var locationOrdering = map[string]string{
	"code": "code",
	"name": "name",
}

type locationRepo struct {
	pool *pgxpool.Pool
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(pool *pgxpool.Pool) output.LocationRepository {
	return &locationRepo{pool: pool}
}

func (r *locationRepo) Create(ctx context.Context, l *domain.Location) error {
	query := `
		INSERT INTO locations (id, created_at, updated_at, code, name)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, l.ID, l.CreatedAt, l.UpdatedAt, l.Code, l.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrLocationCodeConflict
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	l, err := scanLocation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location by id: %w", err)
	}
	return l, nil
}

func (r *locationRepo) Update(ctx context.Context, l *domain.Location) error {
	query := `UPDATE locations SET code = $1, name = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, l.Code, l.Name, l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrLocationCodeConflict
		}
		return fmt.Errorf("update location: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLocationInUse
		}
		return fmt.Errorf("delete location: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *locationRepo) References(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM stock_moves WHERE from_location_id = $1),
			(SELECT COUNT(*) FROM stock_moves WHERE to_location_id = $1),
			(SELECT COUNT(*) FROM stock_move_batches WHERE from_location_id = $1),
			(SELECT COUNT(*) FROM stock_move_batches WHERE to_location_id = $1),
			(SELECT COUNT(*) FROM inventory_levels WHERE location_id = $1)
	`

	var movesFrom, movesTo, batchesFrom, batchesTo, levels int
	err := r.pool.QueryRow(ctx, query, id).Scan(&movesFrom, &movesTo, &batchesFrom, &batchesTo, &levels)
	if err != nil {
		return nil, fmt.Errorf("count location references: %w", err)
	}
	return map[string]int{
		"stock_moves_from":   movesFrom,
		"stock_moves_to":     movesTo,
		"stock_batches_from": batchesFrom,
		"stock_batches_to":   batchesTo,
		"inventory_levels":   levels,
	}, nil
}

func (r *locationRepo) List(ctx context.Context, filter output.LocationFilter) ([]*domain.Location, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", argPos, argPos))
		args = append(args, containsPattern(filter.Search))
		argPos++
	}

	orderBy, err := orderClause(filter.Ordering, locationOrdering, "code ASC", "id")
	if err != nil {
		return nil, 0, err
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM locations WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM locations
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, locationColumns, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan location row: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate location rows: %w", err)
	}

	return locations, total, nil
}

func scanLocation(row pgx.Row) (*domain.Location, error) {
	l := &domain.Location{}
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt, &l.Code, &l.Name); err != nil {
		return nil, err
	}
	return l, nil
}
