package dto

import (
	"time"

	"github.com/google/uuid"

	"inventory-service/internal/core/domain"
)

type CreateLocationRequest struct {
	Code string `json:"code" binding:"required,max=32"`
	Name string `json:"name" binding:"required,max=255"`
}

type UpdateLocationRequest struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
}

type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

type ListLocationsResponse struct {
	Items      []LocationResponse `json:"items"`
	Total      int                `json:"total"`
	PageSize   int                `json:"page_size"`
	NextOffset int                `json:"next_offset"`
}

func ToLocationResponse(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Code:      l.Code,
		Name:      l.Name,
	}
}
