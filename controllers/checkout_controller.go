package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/abrekoglu/lignovia-store-sub001/errors"
	"github.com/abrekoglu/lignovia-store-sub001/models"
)

// CheckoutAPI is the service surface the controller depends on.
type CheckoutAPI interface {
	PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.PlaceOrderResponse, *apperrors.Error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, *apperrors.Error)
}

// CheckoutController handles HTTP requests for order placement
type CheckoutController struct {
	service CheckoutAPI
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(service CheckoutAPI) *CheckoutController {
	return &CheckoutController{service: service}
}

// PlaceOrder places an order
// POST /checkout
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, appErr := cc.service.PlaceOrder(c.Request.Context(), &req)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetOrder returns a placed order
// GET /orders/:orderId
func (cc *CheckoutController) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order ID"})
		return
	}

	order, appErr := cc.service.GetOrder(c.Request.Context(), orderID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}
