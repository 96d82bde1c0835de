package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/models"
	"github.com/serac-labs/seracpay/repository"
	"github.com/serac-labs/seracpay/utils"
)

// OrderController serves read-only order lookups. It never writes; the
// confirmation engine owns the write path.
type OrderController struct {
	Orders repository.OrderStore

	// DefaultBrand serves single-tenant deployments where clients omit
	// brandId. Tenant-scoped lookups pass it explicitly.
	DefaultBrand string
}

type trackRequest struct {
	TrackingRef string `json:"trackingRef"`
	BrandID     string `json:"brandId"`
}

// TrackOrder returns the order matching a customer-facing tracking
// reference. Accepts GET with query params or POST with a JSON body. All
// timestamps in the response are ISO-8601 strings regardless of how the
// stored record represents them.
func (oc *OrderController) TrackOrder(c *gin.Context) {
	var trackingRef, brandID string

	switch c.Request.Method {
	case http.MethodGet:
		trackingRef = c.Query("trackingRef")
		brandID = c.Query("brandId")
	case http.MethodPost:
		var req trackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		trackingRef = req.TrackingRef
		brandID = req.BrandID
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	if trackingRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing trackingRef"})
		return
	}
	if brandID == "" {
		brandID = oc.DefaultBrand
	}

	order, err := oc.Orders.FindByTrackingRef(c.Request.Context(), brandID, trackingRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"found":   false,
				"message": "Tracking reference not valid for this brand",
			})
			return
		}
		utils.LogError("Order lookup failed for trackingRef %s: %v", trackingRef, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"found": true, "order": order})
}

// findOrderForBrand resolves a tracking reference to an order on behalf of
// the receipt and export handlers.
func (oc *OrderController) findOrderForBrand(c *gin.Context, trackingRef, brandID string) (*models.Order, bool) {
	if brandID == "" {
		brandID = oc.DefaultBrand
	}
	order, err := oc.Orders.FindByTrackingRef(c.Request.Context(), brandID, trackingRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Order not found")
			return nil, false
		}
		utils.LogError("Order lookup failed for trackingRef %s: %v", trackingRef, err)
		utils.InternalServerError(c, "Server error", nil)
		return nil, false
	}
	return order, true
}
