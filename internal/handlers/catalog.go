// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

// GET /categories
func GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, models.ProductTypes)
}

// GET /payment-methods
func GetPaymentMethods(c *gin.Context) {
	utils.SuccessResponse(c, models.PaymentMethods)
}
