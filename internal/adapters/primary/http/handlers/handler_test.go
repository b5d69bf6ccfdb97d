package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/core/services"
	"inventory-service/internal/testutil"
)

const apiPrefix = "/api/v1/inventory"

type fixture struct {
	products  *testutil.MockProductRepo
	locations *testutil.MockLocationRepo
	levels    *testutil.MockLevelRepo
	reorder   *testutil.MockReorderRepo
	stock     *testutil.MemoryStock
	router    *gin.Engine
}

func setupRouter() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		products:  new(testutil.MockProductRepo),
		locations: new(testutil.MockLocationRepo),
		levels:    new(testutil.MockLevelRepo),
		reorder:   new(testutil.MockReorderRepo),
		stock:     testutil.NewMemoryStock(),
	}

	h := New(
		services.NewProductService(f.products),
		services.NewLocationService(f.locations),
		services.NewInventoryLevelService(f.levels),
		services.NewStockService(f.stock, f.stock.Moves(), f.stock.Batches(), nil),
		services.NewReorderService(f.reorder, f.products, nil),
		services.NewProductImporter(f.products),
	)

	f.router = gin.New()
	h.RegisterRoutes(f.router.Group(apiPrefix))
	return f
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, apiPrefix+path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
