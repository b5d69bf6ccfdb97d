package handlers

import (
	"inventory-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	productSvc  *services.ProductService
	locationSvc *services.LocationService
	levelSvc    *services.InventoryLevelService
	stockSvc    *services.StockService
	reorderSvc  *services.ReorderService
	importer    *services.ProductImporter
}

func New(
	productSvc *services.ProductService,
	locationSvc *services.LocationService,
	levelSvc *services.InventoryLevelService,
	stockSvc *services.StockService,
	reorderSvc *services.ReorderService,
	importer *services.ProductImporter,
) *Handler {
	return &Handler{
		productSvc:  productSvc,
		locationSvc: locationSvc,
		levelSvc:    levelSvc,
		stockSvc:    stockSvc,
		reorderSvc:  reorderSvc,
		importer:    importer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Products
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
	r.POST("/products/import", h.ImportProducts)
	r.PUT("/products/:id", h.UpdateProduct)
	r.PATCH("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)

	// Locations
	r.GET("/locations", h.ListLocations)
	r.GET("/locations/:id", h.GetLocation)
	r.POST("/locations", h.CreateLocation)
	r.PUT("/locations/:id", h.UpdateLocation)
	r.PATCH("/locations/:id", h.UpdateLocation)
	r.DELETE("/locations/:id", h.DeleteLocation)

	// Inventory (read only)
	r.GET("/inventory/levels", h.ListInventoryLevels)
	r.GET("/inventory/levels/:id", h.GetInventoryLevel)
	r.GET("/inventory/reorder-suggestions", h.ReorderSuggestions)

	// Stock Moves
	r.GET("/stock-moves", h.ListStockMoves)
	r.GET("/stock-moves/:id", h.GetStockMove)
	r.POST("/stock-moves", h.CreateStockMove)
	r.PUT("/stock-moves/:id", h.UpdateStockMove)
	r.PATCH("/stock-moves/:id", h.UpdateStockMove)
	r.DELETE("/stock-moves/:id", h.DeleteStockMove)

	// Stock Batches
	r.GET("/stock-batches", h.ListStockBatches)
	r.GET("/stock-batches/:id", h.GetStockBatch)
	r.POST("/stock-batches", h.CreateStockBatch)
	r.PUT("/stock-batches/:id", h.UpdateStockBatch)
	r.PATCH("/stock-batches/:id", h.UpdateStockBatch)
	r.DELETE("/stock-batches/:id", h.DeleteStockBatch)
}
