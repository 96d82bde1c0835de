package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/models"
	"github.com/serac-labs/seracpay/payments"
	"github.com/serac-labs/seracpay/utils"
)

// WebhookController receives payment provider push notifications.
type WebhookController struct {
	Engine *payments.Engine

	// Secret is the pre-shared value the provider echoes in the verif-hash
	// header. Empty means webhooks cannot be authenticated at all.
	Secret string

	// DefaultBrand scopes events that do not name a brand explicitly.
	DefaultBrand string
}

type webhookData struct {
	ID       models.FlexID `json:"id"`
	TxRef    string        `json:"tx_ref"`
	Status   string        `json:"status"`
	Amount   float64       `json:"amount"`
	Currency string        `json:"currency"`
}

type webhookEvent struct {
	Data *webhookData `json:"data"`
}

// HandleWebhook processes a provider webhook. Any outcome this handler can
// classify (new order, duplicate, ignored status) is acknowledged with 200
// so the provider's retry machinery stops redelivering; only authentication
// failures, malformed payloads, and internal faults are non-2xx.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	signature := c.GetHeader("verif-hash")
	if !wc.signatureValid(signature) {
		utils.LogWarn("Invalid webhook signature from %s", c.ClientIP())
		utils.RespondError(c, utils.AuthenticationError("Invalid signature"))
		return
	}

	rawBody, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, utils.ValidationError("Invalid webhook payload", nil))
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil || event.Data == nil {
		utils.RespondError(c, utils.ValidationError("Invalid webhook payload", nil))
		return
	}

	data := event.Data
	// Providers fan out webhooks for every state transition; only the
	// successful one creates an order. The rest are acknowledged and ignored.
	if !strings.EqualFold(data.Status, "successful") {
		utils.LogWarn("Ignoring transaction %s with status: %s", data.ID, data.Status)
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "message": "Transaction not successful"})
		return
	}

	transactionID := data.ID.String()
	if transactionID == "" {
		utils.RespondError(c, utils.ValidationError("Invalid webhook payload", nil))
		return
	}

	brandID := c.Query("brandId")
	if brandID == "" {
		brandID = wc.DefaultBrand
	}

	result, err := wc.Engine.RecordConfirmedPayment(c.Request.Context(), brandID, payments.ConfirmedPayment{
		TransactionID: transactionID,
		TxRef:         data.TxRef,
		Amount:        data.Amount,
		Currency:      data.Currency,
		RawPayload:    rawBody,
	})
	if err != nil {
		utils.LogError("Webhook processing failed for transaction %s: %v", data.ID, err)
		utils.RespondError(c, utils.StoreError("Internal server error", err))
		return
	}

	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Already processed"})
		return
	}

	utils.LogInfo("Webhook processed successfully for tx_ref %s", data.TxRef)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Webhook processed successfully",
		"orderId": result.Order.ID,
	})
}

// signatureValid compares the header against the shared secret without
// leaking timing information.
func (wc *WebhookController) signatureValid(signature string) bool {
	if wc.Secret == "" || signature == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(wc.Secret)) == 1
}
