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

func TestProductService_Create(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	returned := &domain.Product{ID: uuid.New(), SKU: "SKU-1", Name: "Widget", IsActive: true}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	product, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "  SKU-1 ", Name: "Widget", Cost: dec("1.255"), SalesPrice: dec("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", product.SKU)

	stored := repo.Calls[0].Arguments.Get(1).(*domain.Product)
	assert.Equal(t, "SKU-1", stored.SKU)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.Cost.Equal(dec("1.26")))
}

func TestProductService_Create_BlankTextBecomesNull(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&domain.Product{}, nil)

	blank, category := "   ", " Tools "
	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "SKU-2", Name: "Hammer", Barcode: &blank, Category: &category,
	})
	require.NoError(t, err)

	stored := repo.Calls[0].Arguments.Get(1).(*domain.Product)
	assert.Nil(t, stored.Barcode)
	require.NotNil(t, stored.Category)
	assert.Equal(t, "Tools", *stored.Category)
}

func TestProductService_Create_Invalid(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	_, err := svc.Create(context.Background(), CreateProductRequest{SKU: "", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSKU)

	_, err = svc.Create(context.Background(), CreateProductRequest{SKU: "a", Name: "x", Cost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrNegativePrice)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_Conflict(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrSKUConflict)

	_, err := svc.Create(context.Background(), CreateProductRequest{SKU: "a", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrSKUConflict)
}

func TestProductService_List_ClampsLimit(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	repo.On("List", mock.Anything, ports.ProductFilter{Limit: maxPageSize}).Return([]*domain.Product{}, 0, nil)
	repo.On("List", mock.Anything, ports.ProductFilter{Limit: defaultPageSize}).Return([]*domain.Product{}, 0, nil)

	_, _, err := svc.List(context.Background(), ports.ProductFilter{Limit: 500})
	assert.NoError(t, err)
	_, _, err = svc.List(context.Background(), ports.ProductFilter{})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_Update_Partial(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	id := uuid.New()
	barcode := "123"
	existing := &domain.Product{ID: id, SKU: "A", Name: "Old", Barcode: &barcode, Cost: dec("2")}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	name := "New"
	empty := ""
	_, err := svc.Update(context.Background(), id, UpdateProductRequest{Name: &name, Barcode: &empty})
	require.NoError(t, err)

	assert.Equal(t, "New", existing.Name)
	assert.Equal(t, "A", existing.SKU)
	assert.Nil(t, existing.Barcode)
	assert.True(t, existing.Cost.Equal(dec("2")))
}

func TestProductService_Delete_InUse(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	id := uuid.New()
	refs := map[string]int{"stock_moves": 2, "stock_batch_lines": 0, "stock_batches": 0, "inventory_levels": 1}
	repo.On("GetByID", mock.Anything, id).Return(&domain.Product{ID: id}, nil)
	repo.On("Delete", mock.Anything, id).Return(domain.ErrProductInUse)
	repo.On("References", mock.Anything, id).Return(refs, nil)

	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrProductInUse)

	var referenced *domain.ReferencedError
	require.True(t, errors.As(err, &referenced))
	assert.Equal(t, refs, referenced.References)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	repo := new(testutil.MockProductRepo)
	svc := NewProductService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrProductNotFound)

	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, id)
}
