package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		SKU:        "W-1",
		Name:       "Widget",
		Cost:       dec("1.5"),
		SalesPrice: dec("3"),
		IsActive:   true,
	}
}

func TestListProducts(t *testing.T) {
	f := setupRouter()
	f.products.On("List", mock.Anything, mock.MatchedBy(func(filter ports.ProductFilter) bool {
		return filter.Search == "wid" && filter.IsActive != nil && *filter.IsActive && filter.Limit == 10
	})).Return([]*domain.Product{sampleProduct()}, 1, nil)

	w := f.do(http.MethodGet, "/products?search=wid&is_active=true&limit=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(10), resp["page_size"])
	assert.Equal(t, float64(1), resp["next_offset"])
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "1.50", items[0].(map[string]interface{})["cost"])
}

func TestListProducts_BadIsActive(t *testing.T) {
	f := setupRouter()

	w := f.do(http.MethodGet, "/products?is_active=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProducts_InvalidOrdering(t *testing.T) {
	f := setupRouter()
	f.products.On("List", mock.Anything, mock.Anything).Return(nil, 0, domain.ErrInvalidOrdering)

	w := f.do(http.MethodGet, "/products?ordering=password", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := setupRouter()
	id := uuid.New()
	f.products.On("GetByID", mock.Anything, id).Return(nil, domain.ErrProductNotFound)

	w := f.do(http.MethodGet, "/products/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	f := setupRouter()

	w := f.do(http.MethodGet, "/products/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decodeBody(t, w)["error"])
}

func TestCreateProduct(t *testing.T) {
	f := setupRouter()
	created := sampleProduct()
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.products.On("GetByID", mock.Anything, mock.Anything).Return(created, nil)

	w := f.do(http.MethodPost, "/products", map[string]interface{}{
		"sku": "W-1", "name": "Widget", "cost": "1.50", "sales_price": 3,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "W-1", resp["sku"])
	assert.Equal(t, "3.00", resp["sales_price"])
}

func TestCreateProduct_MissingSKU(t *testing.T) {
	f := setupRouter()

	w := f.do(http.MethodPost, "/products", map[string]interface{}{"name": "Widget"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_Conflict(t *testing.T) {
	f := setupRouter()
	f.products.On("Create", mock.Anything, mock.Anything).Return(domain.ErrSKUConflict)

	w := f.do(http.MethodPost, "/products", map[string]interface{}{"sku": "W-1", "name": "Widget"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateProduct_Patch(t *testing.T) {
	f := setupRouter()
	p := sampleProduct()
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.Product) bool {
		return u.Name == "Gadget" && u.SKU == "W-1"
	})).Return(nil)

	w := f.do(http.MethodPatch, "/products/"+p.ID.String(), map[string]interface{}{"name": "Gadget"})

	assert.Equal(t, http.StatusOK, w.Code)
	f.products.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	f := setupRouter()
	p := sampleProduct()
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Delete", mock.Anything, p.ID).Return(nil)

	w := f.do(http.MethodDelete, "/products/"+p.ID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteProduct_InUse(t *testing.T) {
	f := setupRouter()
	p := sampleProduct()
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Delete", mock.Anything, p.ID).Return(domain.ErrProductInUse)
	f.products.On("References", mock.Anything, p.ID).Return(map[string]int{
		"stock_moves": 2, "stock_batch_lines": 0, "stock_batches": 0, "inventory_levels": 1,
	}, nil)

	w := f.do(http.MethodDelete, "/products/"+p.ID.String(), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeBody(t, w)
	refs := resp["references"].(map[string]interface{})
	assert.Equal(t, float64(2), refs["stock_moves"])
	assert.Contains(t, resp["error"], "cannot delete product")
}

func TestImportProducts(t *testing.T) {
	f := setupRouter()
	f.products.On("UpsertBySKU", mock.Anything, mock.Anything).Return(true, nil).Once()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Name,Internal Reference,Cost\nWidget,W-1,2.5\n,,\n"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, apiPrefix+"/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(1), resp["created"])
	assert.Equal(t, float64(1), resp["skipped"])
}

func TestImportProducts_MissingFile(t *testing.T) {
	f := setupRouter()

	w := f.do(http.MethodPost, "/products/import", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
