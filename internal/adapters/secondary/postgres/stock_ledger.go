package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

type stockLedger struct {
	pool *pgxpool.Pool
}

// NewStockLedger creates a StockLedger backed by Postgres transactions.
func NewStockLedger(pool *pgxpool.Pool) output.StockLedger {
	return &stockLedger{pool: pool}
}

func (l *stockLedger) WithinTx(ctx context.Context, fn func(ctx context.Context, tx output.StockTx) error) error {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin stock transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.WithError(rbErr).Warn("rollback stock transaction failed")
		}
	}()

	if err := fn(ctx, &stockTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock transaction: %w", err)
	}
	return nil
}

type stockTx struct {
	tx pgx.Tx
}

func (t *stockTx) EnsureProducts(ctx context.Context, ids []uuid.UUID) error {
	return ensureExist(ctx, t.tx, "products", ids, domain.ErrProductNotFound)
}

func (t *stockTx) EnsureLocations(ctx context.Context, ids []uuid.UUID) error {
	return ensureExist(ctx, t.tx, "locations", ids, domain.ErrLocationNotFound)
}

func ensureExist(ctx context.Context, q querier, table string, ids []uuid.UUID, notFound error) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var found int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ANY($1)`, table)
	if err := q.QueryRow(ctx, query, ids).Scan(&found); err != nil {
		return fmt.Errorf("check %s exist: %w", table, err)
	}
	if found != len(unique) {
		return notFound
	}
	return nil
}

// LockLevels creates missing rows first, then locks every row in key
// order with one statement per key so lock acquisition order is fixed.
func (t *stockTx) LockLevels(ctx context.Context, keys []domain.LevelKey) (map[domain.LevelKey]decimal.Decimal, error) {
	sorted := domain.SortLevelKeys(keys)

	insert := `
		INSERT INTO inventory_levels (id, product_id, location_id, on_hand)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (product_id, location_id) DO NOTHING
	`
	lock := `
		SELECT on_hand FROM inventory_levels
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`

	levels := make(map[domain.LevelKey]decimal.Decimal, len(sorted))
	for _, k := range sorted {
		if _, err := t.tx.Exec(ctx, insert, uuid.New(), k.ProductID, k.LocationID); err != nil {
			return nil, fmt.Errorf("create inventory level: %w", err)
		}
		var onHand decimal.Decimal
		if err := t.tx.QueryRow(ctx, lock, k.ProductID, k.LocationID).Scan(&onHand); err != nil {
			return nil, fmt.Errorf("lock inventory level: %w", err)
		}
		levels[k] = onHand
	}
	return levels, nil
}

func (t *stockTx) AdjustLevel(ctx context.Context, key domain.LevelKey, delta decimal.Decimal) error {
	query := `
		UPDATE inventory_levels
		SET on_hand = on_hand + $1
		WHERE product_id = $2 AND location_id = $3
	`

	result, err := t.tx.Exec(ctx, query, delta, key.ProductID, key.LocationID)
	if err != nil {
		switch pgErrorCode(err) {
		case "23514":
			// on_hand >= 0 check constraint
			return domain.ErrInsufficientStock
		case "22003":
			return domain.ErrLevelOverflow
		}
		return fmt.Errorf("adjust inventory level: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrLevelNotFound
	}
	return nil
}

func (t *stockTx) InsertMove(ctx context.Context, m *domain.StockMove) error {
	query := `
		INSERT INTO stock_moves
			(id, type, product_id, qty, from_location_id, to_location_id, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := t.tx.Exec(ctx, query,
		m.ID, string(m.Type), m.ProductID, m.Qty, m.FromLocationID, m.ToLocationID, m.Timestamp, m.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == "22003" {
			return domain.ErrQtyTooLarge
		}
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

func (t *stockTx) LockMove(ctx context.Context, id uuid.UUID) (*domain.StockMove, error) {
	query := `
		SELECT id, type, product_id, qty, from_location_id, to_location_id, timestamp, created_at
		FROM stock_moves
		WHERE id = $1
		FOR UPDATE
	`

	m := &domain.StockMove{}
	var moveType string
	err := t.tx.QueryRow(ctx, query, id).Scan(
		&m.ID, &moveType, &m.ProductID, &m.Qty, &m.FromLocationID, &m.ToLocationID, &m.Timestamp, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMoveNotFound
		}
		return nil, fmt.Errorf("lock stock move: %w", err)
	}
	m.Type = domain.MoveType(moveType)
	return m, nil
}

func (t *stockTx) DeleteMove(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.Exec(ctx, `DELETE FROM stock_moves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock move: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMoveNotFound
	}
	return nil
}

func (t *stockTx) InsertBatch(ctx context.Context, b *domain.StockMoveBatch) error {
	query := `
		INSERT INTO stock_move_batches
			(id, type, from_location_id, to_location_id, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := t.tx.Exec(ctx, query,
		b.ID, string(b.Type), b.FromLocationID, b.ToLocationID, b.Timestamp, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock batch: %w", err)
	}

	lineInsert := `
		INSERT INTO stock_move_lines (id, batch_id, product_id, qty)
		VALUES ($1, $2, $3, $4)
	`
	batch := &pgx.Batch{}
	for _, ln := range b.Lines {
		batch.Queue(lineInsert, ln.ID, b.ID, ln.ProductID, ln.Qty)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		if pgErrorCode(err) == "22003" {
			return domain.ErrQtyTooLarge
		}
		return fmt.Errorf("insert stock batch lines: %w", err)
	}
	return nil
}

func (t *stockTx) LockBatch(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error) {
	return getBatch(ctx, t.tx, id, true)
}

func (t *stockTx) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.Exec(ctx, `DELETE FROM stock_move_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}
