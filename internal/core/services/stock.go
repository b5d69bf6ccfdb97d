package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

// StockService applies and reverses stock movements. Every mutation runs in
// one ledger transaction and never leaves a level below zero.
type StockService struct {
	ledger  output.StockLedger
	moves   output.StockMoveRepository
	batches output.StockBatchRepository
	cache   output.SuggestionCache
	now     func() time.Time
}

// NewStockService creates a new stock service. cache may be nil.
func NewStockService(
	ledger output.StockLedger,
	moves output.StockMoveRepository,
	batches output.StockBatchRepository,
	cache output.SuggestionCache,
) *StockService {
	return &StockService{
		ledger:  ledger,
		moves:   moves,
		batches: batches,
		cache:   cache,
		now:     time.Now,
	}
}

// ============================================================================
// Single Moves
// ============================================================================

// ApplyMoveRequest contains parameters for a single stock move
type ApplyMoveRequest struct {
	Type           domain.MoveType
	ProductID      uuid.UUID
	Qty            decimal.Decimal
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	Timestamp      *time.Time
}

// ApplyMove updates inventory levels for the move and records it.
func (s *StockService) ApplyMove(ctx context.Context, req ApplyMoveRequest) (*domain.StockMove, error) {
	if err := domain.ValidateQty(req.Qty); err != nil {
		return nil, err
	}
	if err := domain.ValidateRoute(req.Type, req.FromLocationID, req.ToLocationID); err != nil {
		return nil, err
	}

	now := s.now()
	move := &domain.StockMove{
		ID:             uuid.New(),
		Type:           req.Type,
		ProductID:      req.ProductID,
		Qty:            req.Qty,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Timestamp:      now,
		CreatedAt:      now,
	}
	if req.Timestamp != nil {
		move.Timestamp = *req.Timestamp
	}

	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx output.StockTx) error {
		if err := tx.EnsureProducts(ctx, []uuid.UUID{move.ProductID}); err != nil {
			return err
		}
		if err := tx.EnsureLocations(ctx, routeLocations(move.FromLocationID, move.ToLocationID)); err != nil {
			return err
		}

		plan := newLevelPlan(move.Type, move.FromLocationID, move.ToLocationID)
		plan.add(move.ProductID, move.Qty)

		levels, err := tx.LockLevels(ctx, plan.keys())
		if err != nil {
			return err
		}
		if move.Type.TakesFromSource() && levels[plan.sourceKey(move.ProductID)].LessThan(move.Qty) {
			return domain.ErrInsufficientStock
		}
		if err := plan.checkCapacity(levels, false); err != nil {
			return err
		}
		if err := plan.apply(ctx, tx, false); err != nil {
			return err
		}
		return tx.InsertMove(ctx, move)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSuggestions(ctx)
	log.WithFields(log.Fields{
		"move_id": move.ID,
		"type":    move.Type,
		"qty":     move.Qty.String(),
	}).Info("stock move applied")

	return s.moves.GetByID(ctx, move.ID)
}

// ReverseMove undoes a move and deletes it.
func (s *StockService) ReverseMove(ctx context.Context, id uuid.UUID) error {
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx output.StockTx) error {
		move, err := tx.LockMove(ctx, id)
		if err != nil {
			return err
		}
		if move.Type.AddsToDest() && move.ToLocationID == nil {
			return domain.ErrReverseMissingDest
		}
		if move.Type.TakesFromSource() && move.FromLocationID == nil {
			return domain.ErrReverseMissingSource
		}
		if !move.Type.Valid() {
			return domain.ErrUnknownMoveType
		}

		plan := newLevelPlan(move.Type, move.FromLocationID, move.ToLocationID)
		plan.add(move.ProductID, move.Qty)

		levels, err := tx.LockLevels(ctx, plan.keys())
		if err != nil {
			return err
		}
		if move.Type.AddsToDest() && levels[plan.destKey(move.ProductID)].LessThan(move.Qty) {
			return domain.ErrReverseNegative
		}
		if err := plan.checkCapacity(levels, true); err != nil {
			return err
		}
		if err := plan.apply(ctx, tx, true); err != nil {
			return err
		}
		return tx.DeleteMove(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateSuggestions(ctx)
	log.WithField("move_id", id).Info("stock move reversed")
	return nil
}

func (s *StockService) GetMove(ctx context.Context, id uuid.UUID) (*domain.StockMove, error) {
	return s.moves.GetByID(ctx, id)
}

func (s *StockService) ListMoves(ctx context.Context, filter output.MoveFilter) ([]*domain.StockMove, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	return s.moves.List(ctx, filter)
}

// ============================================================================
// Batches
// ============================================================================

// ApplyBatchRequest contains parameters for a multi-line stock movement
type ApplyBatchRequest struct {
	Type           domain.MoveType
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
	Timestamp      *time.Time
	Lines          []domain.BatchLineInput
}

// ApplyBatch moves every line in one transaction. Lines for the same product
// are merged first so each level row is locked once. Feasibility is checked
// for all products before any level changes.
func (s *StockService) ApplyBatch(ctx context.Context, req ApplyBatchRequest) (*domain.StockMoveBatch, error) {
	if err := domain.ValidateRoute(req.Type, req.FromLocationID, req.ToLocationID); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	plan := newLevelPlan(req.Type, req.FromLocationID, req.ToLocationID)
	for _, ln := range req.Lines {
		if err := domain.ValidateQty(ln.Qty); err != nil {
			return nil, err
		}
		plan.add(ln.ProductID, ln.Qty)
	}
	for _, pid := range plan.products {
		if err := domain.ValidateQty(plan.totals[pid]); err != nil {
			return nil, err
		}
	}

	now := s.now()
	batch := &domain.StockMoveBatch{
		ID:             uuid.New(),
		Type:           req.Type,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Timestamp:      now,
		CreatedAt:      now,
	}
	if req.Timestamp != nil {
		batch.Timestamp = *req.Timestamp
	}
	for _, pid := range plan.products {
		batch.Lines = append(batch.Lines, &domain.StockMoveLine{
			ID:        uuid.New(),
			BatchID:   batch.ID,
			ProductID: pid,
			Qty:       plan.totals[pid],
		})
	}

	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx output.StockTx) error {
		if err := tx.EnsureProducts(ctx, plan.products); err != nil {
			return err
		}
		if err := tx.EnsureLocations(ctx, routeLocations(batch.FromLocationID, batch.ToLocationID)); err != nil {
			return err
		}

		levels, err := tx.LockLevels(ctx, plan.keys())
		if err != nil {
			return err
		}
		if batch.Type.TakesFromSource() {
			for _, pid := range plan.products {
				if levels[plan.sourceKey(pid)].LessThan(plan.totals[pid]) {
					return &domain.InsufficientStockError{ProductID: pid.String(), LocationID: batch.FromLocationID.String()}
				}
			}
		}
		if err := plan.checkCapacity(levels, false); err != nil {
			return err
		}
		if err := plan.apply(ctx, tx, false); err != nil {
			return err
		}
		return tx.InsertBatch(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSuggestions(ctx)
	log.WithFields(log.Fields{
		"batch_id": batch.ID,
		"type":     batch.Type,
		"lines":    len(batch.Lines),
	}).Info("stock batch applied")

	return s.batches.GetByID(ctx, batch.ID)
}

// ReverseBatch undoes every line of a batch and deletes it. A batch without
// lines is deleted as is.
func (s *StockService) ReverseBatch(ctx context.Context, id uuid.UUID) error {
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx output.StockTx) error {
		batch, err := tx.LockBatch(ctx, id)
		if err != nil {
			return err
		}
		if len(batch.Lines) == 0 {
			return tx.DeleteBatch(ctx, id)
		}
		if batch.Type.AddsToDest() && batch.ToLocationID == nil {
			return domain.ErrReverseMissingDest
		}
		if batch.Type.TakesFromSource() && batch.FromLocationID == nil {
			return domain.ErrReverseMissingSource
		}
		if !batch.Type.Valid() {
			return domain.ErrUnknownMoveType
		}

		plan := newLevelPlan(batch.Type, batch.FromLocationID, batch.ToLocationID)
		for _, ln := range batch.Lines {
			plan.add(ln.ProductID, ln.Qty)
		}

		levels, err := tx.LockLevels(ctx, plan.keys())
		if err != nil {
			return err
		}
		if batch.Type.AddsToDest() {
			for _, pid := range plan.products {
				if levels[plan.destKey(pid)].LessThan(plan.totals[pid]) {
					return &domain.InsufficientStockError{ProductID: pid.String(), LocationID: batch.ToLocationID.String(), Reversal: true}
				}
			}
		}
		if err := plan.checkCapacity(levels, true); err != nil {
			return err
		}
		if err := plan.apply(ctx, tx, true); err != nil {
			return err
		}
		return tx.DeleteBatch(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateSuggestions(ctx)
	log.WithField("batch_id", id).Info("stock batch reversed")
	return nil
}

func (s *StockService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error) {
	return s.batches.GetByID(ctx, id)
}

func (s *StockService) ListBatches(ctx context.Context, filter output.BatchFilter) ([]*domain.StockMoveBatch, int, error) {
	filter.Limit = ClampLimit(filter.Limit)
	return s.batches.List(ctx, filter)
}

func (s *StockService) invalidateSuggestions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("invalidate reorder suggestion cache failed")
	}
}

// ============================================================================
// Level Plan
// ============================================================================

// levelPlan holds per-product totals of one movement and knows which level
// rows the movement touches.
type levelPlan struct {
	typ      domain.MoveType
	from, to *uuid.UUID
	products []uuid.UUID
	totals   map[uuid.UUID]decimal.Decimal
}

func newLevelPlan(typ domain.MoveType, from, to *uuid.UUID) *levelPlan {
	return &levelPlan{typ: typ, from: from, to: to, totals: make(map[uuid.UUID]decimal.Decimal)}
}

func (p *levelPlan) add(productID uuid.UUID, qty decimal.Decimal) {
	cur, ok := p.totals[productID]
	if !ok {
		p.products = append(p.products, productID)
	}
	p.totals[productID] = cur.Add(qty)
}

func (p *levelPlan) sourceKey(productID uuid.UUID) domain.LevelKey {
	return domain.LevelKey{ProductID: productID, LocationID: *p.from}
}

func (p *levelPlan) destKey(productID uuid.UUID) domain.LevelKey {
	return domain.LevelKey{ProductID: productID, LocationID: *p.to}
}

// keys lists every level the plan touches, in lock order.
func (p *levelPlan) keys() []domain.LevelKey {
	keys := make([]domain.LevelKey, 0, 2*len(p.products))
	for _, pid := range p.products {
		if p.typ.TakesFromSource() {
			keys = append(keys, p.sourceKey(pid))
		}
		if p.typ.AddsToDest() {
			keys = append(keys, p.destKey(pid))
		}
	}
	return domain.SortLevelKeys(keys)
}

// checkCapacity rejects the plan if a level it raises would pass MaxQty.
func (p *levelPlan) checkCapacity(levels map[domain.LevelKey]decimal.Decimal, reverse bool) error {
	for _, pid := range p.products {
		var key domain.LevelKey
		switch {
		case !reverse && p.typ.AddsToDest():
			key = p.destKey(pid)
		case reverse && p.typ.TakesFromSource():
			key = p.sourceKey(pid)
		default:
			continue
		}
		if levels[key].Add(p.totals[pid]).GreaterThan(domain.MaxQty) {
			return domain.ErrLevelOverflow
		}
	}
	return nil
}

// apply moves the totals from source to destination, or back when reverse
// is set.
func (p *levelPlan) apply(ctx context.Context, tx output.StockTx, reverse bool) error {
	for _, pid := range p.products {
		qty := p.totals[pid]
		if reverse {
			qty = qty.Neg()
		}
		if p.typ.TakesFromSource() {
			if err := tx.AdjustLevel(ctx, p.sourceKey(pid), qty.Neg()); err != nil {
				return err
			}
		}
		if p.typ.AddsToDest() {
			if err := tx.AdjustLevel(ctx, p.destKey(pid), qty); err != nil {
				return err
			}
		}
	}
	return nil
}

func routeLocations(from, to *uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	if from != nil {
		ids = append(ids, *from)
	}
	if to != nil {
		ids = append(ids, *to)
	}
	return ids
}
