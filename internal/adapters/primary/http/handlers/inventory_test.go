package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/ports/output"
)

func TestCreateLocation(t *testing.T) {
	f := setupRouter()
	loc := &domain.Location{ID: uuid.New(), Code: "MAIN", Name: "Main warehouse", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.locations.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Location) bool {
		return l.Code == "MAIN"
	})).Return(nil)
	f.locations.On("GetByID", mock.Anything, mock.Anything).Return(loc, nil)

	w := f.do(http.MethodPost, "/locations", map[string]interface{}{"code": " MAIN ", "name": "Main warehouse"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "MAIN", decodeBody(t, w)["code"])
}

func TestCreateLocation_DuplicateCode(t *testing.T) {
	f := setupRouter()
	f.locations.On("Create", mock.Anything, mock.Anything).Return(domain.ErrLocationCodeConflict)

	w := f.do(http.MethodPost, "/locations", map[string]interface{}{"code": "MAIN", "name": "Main"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListLocations(t *testing.T) {
	f := setupRouter()
	f.locations.On("List", mock.Anything, mock.MatchedBy(func(filter ports.LocationFilter) bool {
		return filter.Ordering == "-code" && filter.Offset == 20 && filter.Limit == 20
	})).Return([]*domain.Location{{ID: uuid.New(), Code: "A", Name: "A"}}, 21, nil)

	w := f.do(http.MethodGet, "/locations?ordering=-code&offset=20", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(21), resp["total"])
	assert.Equal(t, float64(21), resp["next_offset"])
}

func TestDeleteLocation_InUse(t *testing.T) {
	f := setupRouter()
	id := uuid.New()
	f.locations.On("GetByID", mock.Anything, id).Return(&domain.Location{ID: id, Code: "A", Name: "A"}, nil)
	f.locations.On("Delete", mock.Anything, id).Return(domain.ErrLocationInUse)
	f.locations.On("References", mock.Anything, id).Return(map[string]int{"stock_moves_from": 3}, nil)

	w := f.do(http.MethodDelete, "/locations/"+id.String(), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	refs := decodeBody(t, w)["references"].(map[string]interface{})
	assert.Equal(t, float64(3), refs["stock_moves_from"])
}

func TestListInventoryLevels(t *testing.T) {
	f := setupRouter()
	productID := uuid.New()
	f.levels.On("List", mock.Anything, mock.MatchedBy(func(filter ports.LevelFilter) bool {
		return filter.ProductID != nil && *filter.ProductID == productID && filter.LocationCode == "MAIN"
	})).Return([]*domain.InventoryLevel{{
		ID: uuid.New(), ProductID: productID, LocationID: uuid.New(),
		OnHand: decimal.NewFromInt(7), ProductSKU: "W-1", LocationCode: "MAIN",
	}}, 1, nil)

	w := f.do(http.MethodGet, "/inventory/levels?product="+productID.String()+"&location__code=MAIN", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	level := items[0].(map[string]interface{})
	assert.Equal(t, "7.00", level["on_hand"])
	assert.Equal(t, "W-1", level["product_sku"])
}

func TestGetInventoryLevel_NotFound(t *testing.T) {
	f := setupRouter()
	id := uuid.New()
	f.levels.On("GetByID", mock.Anything, id).Return(nil, domain.ErrLevelNotFound)

	w := f.do(http.MethodGet, "/inventory/levels/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryLevels_ReadOnly(t *testing.T) {
	f := setupRouter()

	w := f.do(http.MethodPost, "/inventory/levels", map[string]interface{}{})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorderSuggestions(t *testing.T) {
	f := setupRouter()
	fast := uuid.New()
	f.reorder.On("OutboundSince", mock.Anything, mock.Anything).Return(map[uuid.UUID]decimal.Decimal{
		fast: dec("100"),
	}, nil)
	f.reorder.On("OnHandTotals", mock.Anything).Return(map[uuid.UUID]decimal.Decimal{fast: dec("20")}, nil)
	f.products.On("GetByIDs", mock.Anything, []uuid.UUID{fast}).Return(map[uuid.UUID]*domain.Product{
		fast: {ID: fast, SKU: "FAST", Name: "Fast mover"},
	}, nil)

	w := f.do(http.MethodGet, "/inventory/reorder-suggestions?days=10&coverage_days=7", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "FAST", rows[0]["sku"])
	assert.Equal(t, "10.00", rows[0]["avg_daily_demand"])
	assert.Equal(t, "50.00", rows[0]["suggested_qty"])
}

func TestReorderSuggestions_BadParams(t *testing.T) {
	f := setupRouter()

	for _, q := range []string{"days=x", "coverage_days=1.5", "min_qty=abc"} {
		w := f.do(http.MethodGet, "/inventory/reorder-suggestions?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	f.reorder.AssertNotCalled(t, "OutboundSince", mock.Anything, mock.Anything)
}
