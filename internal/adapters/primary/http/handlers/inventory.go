package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/adapters/primary/http/dto"
	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
	"inventory-service/internal/core/services"
)

func (h *Handler) ListInventoryLevels(c *gin.Context) {
	limit, offset := pagination(c)

	productID, err := optionalUUID(c, "product")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	locationID, err := optionalUUID(c, "location")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := output.LevelFilter{
		ProductID:    productID,
		LocationID:   locationID,
		ProductSKU:   firstQuery(c, "product_sku", "product__sku"),
		LocationCode: firstQuery(c, "location_code", "location__code"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
		Limit:        limit,
		Offset:       offset,
	}

	levels, total, err := h.levelSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list inventory levels failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.InventoryLevelResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, dto.ToInventoryLevelResponse(l))
	}

	c.JSON(http.StatusOK, dto.ListInventoryLevelsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetInventoryLevel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	level, err := h.levelSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryLevelResponse(level))
}

// ReorderSuggestions accepts days, coverage_days and min_qty query parameters.
func (h *Handler) ReorderSuggestions(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultReorderDays)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
		return
	}
	coverage, err := strconv.Atoi(c.DefaultQuery("coverage_days", strconv.Itoa(services.DefaultReorderCoverage)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coverage_days must be an integer"})
		return
	}
	minQty, err := decimal.NewFromString(c.DefaultQuery("min_qty", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_qty must be a number"})
		return
	}

	rows, err := h.reorderSvc.Suggest(c.Request.Context(), domain.ReorderParams{
		Days:         days,
		CoverageDays: coverage,
		MinQty:       minQty,
	})
	if err != nil {
		log.WithError(err).Error("reorder suggestions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ReorderSuggestionResponse, 0, len(rows))
	for _, s := range rows {
		items = append(items, dto.ToReorderSuggestionResponse(s))
	}

	c.JSON(http.StatusOK, items)
}
