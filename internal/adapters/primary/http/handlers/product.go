package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/adapters/primary/http/dto"
	output "inventory-service/internal/core/ports/output"
	"inventory-service/internal/core/services"
)

func (h *Handler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)

	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := output.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		IsActive: isActive,
		Ordering: c.Query("ordering"),
		Limit:    limit,
		Offset:   offset,
	}

	products, total, err := h.productSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list products failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ToProductResponse(p))
	}

	c.JSON(http.StatusOK, dto.ListProductsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	product, err := h.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productSvc.Create(c.Request.Context(), services.CreateProductRequest{
		SKU:        req.SKU,
		Name:       req.Name,
		Barcode:    req.Barcode,
		Category:   req.Category,
		Cost:       req.Cost,
		SalesPrice: req.SalesPrice,
		IsActive:   req.IsActive,
	})
	if err != nil {
		log.WithError(err).Error("create product failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productSvc.Update(c.Request.Context(), id, services.UpdateProductRequest{
		SKU:        req.SKU,
		Name:       req.Name,
		Barcode:    req.Barcode,
		Category:   req.Category,
		Cost:       req.Cost,
		SalesPrice: req.SalesPrice,
		IsActive:   req.IsActive,
	})
	if err != nil {
		log.WithError(err).Error("update product failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.productSvc.Delete(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ImportProducts accepts a product-template CSV as the multipart field "file".
func (h *Handler) ImportProducts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	res, err := h.importer.Import(c.Request.Context(), f)
	if err != nil {
		log.WithError(err).WithField("file", fh.Filename).Error("import products failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportProductsResponse{
		Created: res.Created,
		Updated: res.Updated,
		Skipped: res.Skipped,
	})
}
