package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/utils"
)

type trackingEmailRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	TrackingRef string `json:"trackingRef"`
	Type        string `json:"type"` // "quote" or "order"
}

// SendTrackingEmail mails a customer their tracking reference. Notification
// is a stub collaborator: it reads no order state and writes nothing.
func SendTrackingEmail(c *gin.Context) {
	var req trackingEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", nil)
		return
	}
	if req.Email == "" || req.TrackingRef == "" {
		utils.BadRequest(c, "Missing email or trackingRef", nil)
		return
	}

	if err := utils.SendTrackingEmail(req.Email, req.Name, req.TrackingRef, req.Type); err != nil {
		utils.LogError("Email send error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
