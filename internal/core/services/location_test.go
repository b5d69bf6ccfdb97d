package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
	"inventory-service/internal/testutil"
)

func TestLocationService_Create(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	returned := &domain.Location{ID: uuid.New(), Code: "WH", Name: "Warehouse"}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Location")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	location, err := svc.Create(context.Background(), "WH", "Warehouse")
	require.NoError(t, err)
	assert.Equal(t, "WH", location.Code)
}

func TestLocationService_Create_Invalid(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	_, err := svc.Create(context.Background(), " ", "Warehouse")
	assert.ErrorIs(t, err, domain.ErrInvalidLocationCode)
	_, err = svc.Create(context.Background(), "WH", "")
	assert.ErrorIs(t, err, domain.ErrInvalidLocationName)
}

func TestLocationService_Create_Conflict(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrLocationCodeConflict)

	_, err := svc.Create(context.Background(), "WH", "Warehouse")
	assert.ErrorIs(t, err, domain.ErrLocationCodeConflict)
}

func TestLocationService_Update(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	id := uuid.New()
	existing := &domain.Location{ID: id, Code: "WH", Name: "Old"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	name := "Main warehouse"
	_, err := svc.Update(context.Background(), id, nil, &name)
	require.NoError(t, err)
	assert.Equal(t, "WH", existing.Code)
	assert.Equal(t, "Main warehouse", existing.Name)
}

func TestLocationService_List(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	expected := []*domain.Location{{Code: "A"}, {Code: "B"}}
	repo.On("List", mock.Anything, ports.LocationFilter{Search: "a", Limit: defaultPageSize}).Return(expected, 2, nil)

	items, total, err := svc.List(context.Background(), ports.LocationFilter{Search: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

func TestLocationService_Delete_InUse(t *testing.T) {
	repo := new(testutil.MockLocationRepo)
	svc := NewLocationService(repo)

	id := uuid.New()
	refs := map[string]int{"stock_moves_from": 1, "stock_moves_to": 0}
	repo.On("GetByID", mock.Anything, id).Return(&domain.Location{ID: id}, nil)
	repo.On("Delete", mock.Anything, id).Return(domain.ErrLocationInUse)
	repo.On("References", mock.Anything, id).Return(refs, nil)

	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrLocationInUse)

	var referenced *domain.ReferencedError
	require.True(t, errors.As(err, &referenced))
	assert.Equal(t, 1, referenced.References["stock_moves_from"])
}

func TestInventoryLevelService_List(t *testing.T) {
	repo := new(testutil.MockLevelRepo)
	svc := NewInventoryLevelService(repo)

	pid := uuid.New()
	level := &domain.InventoryLevel{ID: uuid.New(), ProductID: pid, OnHand: dec("4")}
	repo.On("List", mock.Anything, ports.LevelFilter{ProductID: &pid, Limit: defaultPageSize}).
		Return([]*domain.InventoryLevel{level}, 1, nil)

	items, total, err := svc.List(context.Background(), ports.LevelFilter{ProductID: &pid})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.True(t, items[0].OnHand.Equal(dec("4")))
}
