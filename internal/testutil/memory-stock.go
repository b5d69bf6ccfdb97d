package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

// MemoryStock is an in-memory stock ledger. It implements StockLedger,
// StockMoveRepository and StockBatchRepository. Transactions are serialized
// and roll back by restoring a snapshot.
type MemoryStock struct {
	mu        sync.Mutex
	products  map[uuid.UUID]bool
	locations map[uuid.UUID]bool
	levels    map[domain.LevelKey]decimal.Decimal
	moves     map[uuid.UUID]*domain.StockMove
	batches   map[uuid.UUID]*domain.StockMoveBatch

	// LockOrder records the keys passed to LockLevels, in call order.
	LockOrder [][]domain.LevelKey
}

func NewMemoryStock() *MemoryStock {
	return &MemoryStock{
		products:  make(map[uuid.UUID]bool),
		locations: make(map[uuid.UUID]bool),
		levels:    make(map[domain.LevelKey]decimal.Decimal),
		moves:     make(map[uuid.UUID]*domain.StockMove),
		batches:   make(map[uuid.UUID]*domain.StockMoveBatch),
	}
}

func (m *MemoryStock) AddProduct() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.products[id] = true
	return id
}

func (m *MemoryStock) AddLocation() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.locations[id] = true
	return id
}

// SetLevel forces on_hand for a level.
func (m *MemoryStock) SetLevel(productID, locationID uuid.UUID, onHand decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[domain.LevelKey{ProductID: productID, LocationID: locationID}] = onHand
}

// Level returns on_hand and whether the level row exists.
func (m *MemoryStock) Level(productID, locationID uuid.UUID) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.levels[domain.LevelKey{ProductID: productID, LocationID: locationID}]
	return v, ok
}

func (m *MemoryStock) MoveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.moves)
}

func (m *MemoryStock) BatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

// InsertEmptyBatch stores a batch without lines.
func (m *MemoryStock) InsertEmptyBatch(typ domain.MoveType, from, to *uuid.UUID) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.batches[id] = &domain.StockMoveBatch{ID: id, Type: typ, FromLocationID: from, ToLocationID: to}
	return id
}

// ============================================================================
// StockLedger
// ============================================================================

func (m *MemoryStock) WithinTx(ctx context.Context, fn func(ctx context.Context, tx output.StockTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	levels := make(map[domain.LevelKey]decimal.Decimal, len(m.levels))
	for k, v := range m.levels {
		levels[k] = v
	}
	moves := make(map[uuid.UUID]*domain.StockMove, len(m.moves))
	for k, v := range m.moves {
		moves[k] = v
	}
	batches := make(map[uuid.UUID]*domain.StockMoveBatch, len(m.batches))
	for k, v := range m.batches {
		batches[k] = v
	}

	if err := fn(ctx, &memoryTx{m: m}); err != nil {
		m.levels, m.moves, m.batches = levels, moves, batches
		return err
	}
	return nil
}

type memoryTx struct {
	m *MemoryStock
}

func (t *memoryTx) EnsureProducts(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if !t.m.products[id] {
			return domain.ErrProductNotFound
		}
	}
	return nil
}

func (t *memoryTx) EnsureLocations(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if !t.m.locations[id] {
			return domain.ErrLocationNotFound
		}
	}
	return nil
}

func (t *memoryTx) LockLevels(ctx context.Context, keys []domain.LevelKey) (map[domain.LevelKey]decimal.Decimal, error) {
	t.m.LockOrder = append(t.m.LockOrder, append([]domain.LevelKey(nil), keys...))

	out := make(map[domain.LevelKey]decimal.Decimal, len(keys))
	for _, k := range keys {
		v, ok := t.m.levels[k]
		if !ok {
			v = decimal.Zero
			t.m.levels[k] = v
		}
		out[k] = v
	}
	return out, nil
}

func (t *memoryTx) AdjustLevel(ctx context.Context, key domain.LevelKey, delta decimal.Decimal) error {
	t.m.levels[key] = t.m.levels[key].Add(delta)
	return nil
}

func (t *memoryTx) InsertMove(ctx context.Context, move *domain.StockMove) error {
	cp := *move
	t.m.moves[move.ID] = &cp
	return nil
}

func (t *memoryTx) LockMove(ctx context.Context, id uuid.UUID) (*domain.StockMove, error) {
	mv, ok := t.m.moves[id]
	if !ok {
		return nil, domain.ErrMoveNotFound
	}
	cp := *mv
	return &cp, nil
}

func (t *memoryTx) DeleteMove(ctx context.Context, id uuid.UUID) error {
	delete(t.m.moves, id)
	return nil
}

func (t *memoryTx) InsertBatch(ctx context.Context, batch *domain.StockMoveBatch) error {
	t.m.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (t *memoryTx) LockBatch(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error) {
	b, ok := t.m.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return copyBatch(b), nil
}

func (t *memoryTx) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	delete(t.m.batches, id)
	return nil
}

// ============================================================================
// Read Side
// ============================================================================

// Moves returns a StockMoveRepository view over the ledger.
func (m *MemoryStock) Moves() output.StockMoveRepository { return memoryMoves{m} }

// Batches returns a StockBatchRepository view over the ledger.
func (m *MemoryStock) Batches() output.StockBatchRepository { return memoryBatches{m} }

type memoryMoves struct{ m *MemoryStock }

func (r memoryMoves) GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMove, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	mv, ok := r.m.moves[id]
	if !ok {
		return nil, domain.ErrMoveNotFound
	}
	cp := *mv
	return &cp, nil
}

func (r memoryMoves) List(ctx context.Context, filter output.MoveFilter) ([]*domain.StockMove, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.StockMove
	for _, mv := range r.m.moves {
		if filter.Type != "" && string(mv.Type) != filter.Type {
			continue
		}
		if filter.ProductID != nil && mv.ProductID != *filter.ProductID {
			continue
		}
		cp := *mv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, len(out), nil
}

type memoryBatches struct{ m *MemoryStock }

func (r memoryBatches) GetByID(ctx context.Context, id uuid.UUID) (*domain.StockMoveBatch, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return copyBatch(b), nil
}

func (r memoryBatches) List(ctx context.Context, filter output.BatchFilter) ([]*domain.StockMoveBatch, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.StockMoveBatch
	for _, b := range r.m.batches {
		if filter.Type != "" && string(b.Type) != filter.Type {
			continue
		}
		out = append(out, copyBatch(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, len(out), nil
}

func copyBatch(b *domain.StockMoveBatch) *domain.StockMoveBatch {
	cp := *b
	cp.Lines = make([]*domain.StockMoveLine, len(b.Lines))
	for i, ln := range b.Lines {
		l := *ln
		cp.Lines[i] = &l
	}
	return &cp
}
