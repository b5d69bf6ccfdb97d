package testutil

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

// MockProductRepo is a mock of ProductRepository.
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepo) References(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepo) UpsertBySKU(ctx context.Context, product *domain.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

// MockLocationRepo is a mock of LocationRepository.
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Create(ctx context.Context, location *domain.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepo) Update(ctx context.Context, location *domain.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepo) References(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockLocationRepo) List(ctx context.Context, filter ports.LocationFilter) ([]*domain.Location, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Location), args.Int(1), args.Error(2)
}

// MockLevelRepo is a mock of InventoryLevelRepository.
type MockLevelRepo struct {
	mock.Mock
}

func (m *MockLevelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryLevel), args.Error(1)
}

func (m *MockLevelRepo) List(ctx context.Context, filter ports.LevelFilter) ([]*domain.InventoryLevel, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.InventoryLevel), args.Int(1), args.Error(2)
}

// MockUserRepo is a mock of UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockReorderRepo is a mock of ReorderRepository.
type MockReorderRepo struct {
	mock.Mock
}

func (m *MockReorderRepo) OutboundSince(ctx context.Context, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockReorderRepo) OnHandTotals(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

// MockSuggestionCache is a mock of SuggestionCache.
type MockSuggestionCache struct {
	mock.Mock
}

func (m *MockSuggestionCache) Key(ctx context.Context, params domain.ReorderParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockSuggestionCache) Get(ctx context.Context, key string) ([]*domain.ReorderSuggestion, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ReorderSuggestion), args.Bool(1), args.Error(2)
}

func (m *MockSuggestionCache) Set(ctx context.Context, key string, rows []*domain.ReorderSuggestion) error {
	args := m.Called(ctx, key, rows)
	return args.Error(0)
}

func (m *MockSuggestionCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDumper is a mock of DatabaseDumper. Dump writes Payload to w.
type MockDumper struct {
	mock.Mock
	Payload []byte
}

func (m *MockDumper) Dump(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := w.Write(m.Payload)
	return err
}

func (m *MockDumper) Restore(ctx context.Context, r io.Reader, opts ports.RestoreOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	args := m.Called(ctx, data, opts)
	return args.Error(0)
}
