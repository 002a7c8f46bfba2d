package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abrekoglu/lignovia-store-sub001/repository"
	"github.com/abrekoglu/lignovia-store-sub001/services"
)

// InventoryController handles admin HTTP requests for stock management
type InventoryController struct {
	service *services.InventoryService
}

// NewInventoryController creates a new InventoryController
func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{service: service}
}

// GetStock returns the stock record for a product
// GET /inventory/:productId
func (ic *InventoryController) GetStock(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing product ID"})
		return
	}

	p, appErr := ic.service.GetStock(c.Request.Context(), productID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, p)
}

// SetStock creates or replaces a product stock record
// POST /inventory
func (ic *InventoryController) SetStock(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Name      string `json:"name"`
		Stock     int    `json:"stock" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	p := &repository.Product{ProductID: req.ProductID, Name: req.Name, Stock: req.Stock}
	if appErr := ic.service.SetStock(c.Request.Context(), p); appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// AdjustStock applies a signed stock delta
// POST /inventory/adjust
func (ic *InventoryController) AdjustStock(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Delta     int    `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	newStock, appErr := ic.service.AdjustStock(c.Request.Context(), req.ProductID, req.Delta)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": req.ProductID,
		"stock":      newStock,
	})
}
