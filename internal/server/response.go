package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	inventorydomain "github.com/slotlinelabs/slotline/internal/inventory/domain"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, catalogdomain.ErrCartNotFound):
		return http.StatusNotFound
	case errors.Is(err, orderdomain.ErrInvalidOrder),
		errors.Is(err, orderdomain.ErrInvalidBuyer):
		return http.StatusBadRequest
	case errors.Is(err, catalogdomain.ErrPriceNotFound),
		errors.Is(err, orderdomain.ErrRenewalTargetMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inventorydomain.ErrStaleInventory):
		return http.StatusConflict
	case errors.Is(err, catalogdomain.ErrCatalogRead):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
