package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/adapters/primary/http/dto"
	output "inventory-service/internal/core/ports/output"
)

func (h *Handler) ListLocations(c *gin.Context) {
	limit, offset := pagination(c)

	filter := output.LocationFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    limit,
		Offset:   offset,
	}

	locations, total, err := h.locationSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list locations failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		items = append(items, dto.ToLocationResponse(l))
	}

	c.JSON(http.StatusOK, dto.ListLocationsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	location, err := h.locationSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLocationResponse(location))
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.locationSvc.Create(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		log.WithError(err).Error("create location failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLocationResponse(location))
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.locationSvc.Update(c.Request.Context(), id, req.Code, req.Name)
	if err != nil {
		log.WithError(err).Error("update location failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLocationResponse(location))
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.locationSvc.Delete(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
