package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/adapters/primary/http/dto"
	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
	"inventory-service/internal/core/services"
)

// ============================================================================
// Stock Moves
// ============================================================================

func (h *Handler) ListStockMoves(c *gin.Context) {
	limit, offset := pagination(c)

	productID, err := optionalUUID(c, "product")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fromID, err := optionalUUID(c, "from_location")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toID, err := optionalUUID(c, "to_location")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := output.MoveFilter{
		Type:           c.Query("type"),
		ProductID:      productID,
		FromLocationID: fromID,
		ToLocationID:   toID,
		ProductSKU:     firstQuery(c, "product_sku", "product__sku"),
		FromCode:       firstQuery(c, "from_code", "from_location__code"),
		ToCode:         firstQuery(c, "to_code", "to_location__code"),
		Search:         c.Query("search"),
		Ordering:       c.Query("ordering"),
		Limit:          limit,
		Offset:         offset,
	}

	moves, total, err := h.stockSvc.ListMoves(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list stock moves failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.StockMoveResponse, 0, len(moves))
	for _, m := range moves {
		items = append(items, dto.ToStockMoveResponse(m))
	}

	c.JSON(http.StatusOK, dto.ListStockMovesResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetStockMove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	move, err := h.stockSvc.GetMove(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStockMoveResponse(move))
}

func (h *Handler) CreateStockMove(c *gin.Context) {
	var req dto.CreateStockMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	move, err := h.stockSvc.ApplyMove(c.Request.Context(), services.ApplyMoveRequest{
		Type:           domain.MoveType(req.Type),
		ProductID:      req.Product,
		Qty:            req.Qty,
		FromLocationID: req.FromLocation,
		ToLocationID:   req.ToLocation,
		Timestamp:      req.Timestamp,
	})
	if err != nil {
		log.WithError(err).Warn("create stock move failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStockMoveResponse(move))
}

func (h *Handler) UpdateStockMove(c *gin.Context) {
	mapDomainError(c, domain.ErrMoveImmutable)
}

// DeleteStockMove reverses the move's effect on inventory levels, then removes it.
func (h *Handler) DeleteStockMove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.stockSvc.ReverseMove(c.Request.Context(), id); err != nil {
		log.WithError(err).WithField("move_id", id).Warn("reverse stock move failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ============================================================================
// Stock Batches
// ============================================================================

func (h *Handler) ListStockBatches(c *gin.Context) {
	limit, offset := pagination(c)

	fromID, err := optionalUUID(c, "from_location")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toID, err := optionalUUID(c, "to_location")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := output.BatchFilter{
		Type:           c.Query("type"),
		FromLocationID: fromID,
		ToLocationID:   toID,
		FromCode:       firstQuery(c, "from_code", "from_location__code"),
		ToCode:         firstQuery(c, "to_code", "to_location__code"),
		Ordering:       c.Query("ordering"),
		Limit:          limit,
		Offset:         offset,
	}

	batches, total, err := h.stockSvc.ListBatches(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list stock batches failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.StockBatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, dto.ToStockBatchResponse(b))
	}

	c.JSON(http.StatusOK, dto.ListStockBatchesResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetStockBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	batch, err := h.stockSvc.GetBatch(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStockBatchResponse(batch))
}

func (h *Handler) CreateStockBatch(c *gin.Context) {
	var req dto.CreateStockBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := h.stockSvc.ApplyBatch(c.Request.Context(), services.ApplyBatchRequest{
		Type:           domain.MoveType(req.Type),
		FromLocationID: req.FromLocation,
		ToLocationID:   req.ToLocation,
		Timestamp:      req.Timestamp,
		Lines:          dto.ToBatchLines(req.Lines),
	})
	if err != nil {
		log.WithError(err).Warn("create stock batch failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStockBatchResponse(batch))
}

func (h *Handler) UpdateStockBatch(c *gin.Context) {
	mapDomainError(c, domain.ErrBatchImmutable)
}

// DeleteStockBatch reverses every line of the batch, then removes it.
func (h *Handler) DeleteStockBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.stockSvc.ReverseBatch(c.Request.Context(), id); err != nil {
		log.WithError(err).WithField("batch_id", id).Warn("reverse stock batch failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
