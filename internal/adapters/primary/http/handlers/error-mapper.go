package handlers

import (
	"errors"
	"net/http"

	"inventory-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	var refErr *domain.ReferencedError

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, domain.ErrLevelNotFound),
		errors.Is(err, domain.ErrMoveNotFound),
		errors.Is(err, domain.ErrBatchNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Referenced entities can't be deleted
	case errors.As(err, &refErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "detail": refErr.Error(), "references": refErr.References})

	// Conflict errors
	case errors.Is(err, domain.ErrSKUConflict),
		errors.Is(err, domain.ErrLocationCodeConflict),
		errors.Is(err, domain.ErrProductInUse),
		errors.Is(err, domain.ErrLocationInUse),
		errors.Is(err, domain.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Stock rule violations
	case errors.Is(err, domain.ErrStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidSKU),
		errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidLocationCode),
		errors.Is(err, domain.ErrInvalidLocationName),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidOrdering),
		errors.Is(err, domain.ErrFieldTooLong),
		errors.Is(err, domain.ErrImportFileNotFound),
		errors.Is(err, domain.ErrImportMissingColumns),
		errors.Is(err, domain.ErrImportInvalidRow),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrMoveImmutable),
		errors.Is(err, domain.ErrBatchImmutable):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
