package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serac-labs/seracpay/flutterwave"
	"github.com/serac-labs/seracpay/models"
	"github.com/serac-labs/seracpay/payments"
	"github.com/serac-labs/seracpay/utils"
)

// VerifyController handles client-initiated payment verification: it
// re-checks the payment against the provider's synchronous API and feeds the
// authoritative result into the confirmation engine.
type VerifyController struct {
	Engine   *payments.Engine
	Verifier flutterwave.Verifier

	// SecretKey mirrors the provider credential; its absence is a
	// deployment error reported as 500, never retried.
	SecretKey    string
	DefaultBrand string

	// Timeout bounds the outbound verification call.
	Timeout time.Duration
}

type verifyRequest struct {
	TransactionID  models.FlexID          `json:"transaction_id"`
	TxRef          string                 `json:"tx_ref"`
	ExpectedAmount *float64               `json:"expectedAmount"`
	Currency       string                 `json:"currency"`
	OrderData      map[string]interface{} `json:"orderData"`
	QuoteID        string                 `json:"quoteId"`
	BrandID        string                 `json:"brandId"`
}

// VerifyPayment confirms a payment the client claims to have completed.
// Duplicate confirmation attempts (a user refreshing a "processing" page)
// short-circuit on the stored order without any outbound call.
func (vc *VerifyController) VerifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("Invalid request body", nil))
		return
	}

	transactionID := req.TransactionID.String()
	if transactionID == "" && req.TxRef == "" {
		utils.RespondError(c, utils.ValidationError("Missing transaction_id or tx_ref", nil))
		return
	}

	if vc.SecretKey == "" {
		utils.LogError("FLW_SECRET_KEY is not configured")
		utils.RespondError(c, utils.ConfigurationError("Missing Flutterwave secret key"))
		return
	}

	brandID := req.BrandID
	if brandID == "" {
		brandID = vc.DefaultBrand
	}

	existing, err := vc.Engine.ExistingOrder(c.Request.Context(), brandID, transactionID)
	if err != nil {
		utils.LogError("Idempotency check failed for transaction %s: %v", transactionID, err)
		utils.RespondError(c, utils.StoreError("Internal server error", nil))
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":           "success",
			"verified":         true,
			"alreadyProcessed": true,
			"orderDoc":         existing,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), vc.Timeout)
	defer cancel()

	var tx *flutterwave.Transaction
	if transactionID != "" {
		tx, err = vc.Verifier.VerifyByID(ctx, transactionID)
	} else {
		// Rare fallback when the client never learned the transaction id.
		tx, err = vc.Verifier.VerifyByReference(ctx, req.TxRef)
	}
	if err != nil {
		var verr *flutterwave.VerificationError
		if errors.As(err, &verr) {
			utils.LogError("Flutterwave verify failed: %s", verr.Message)
			utils.Failed(c, verr.Message, json.RawMessage(verr.Raw))
			return
		}
		utils.LogError("Flutterwave verify call failed: %v", err)
		utils.Failed(c, "Verification failed", nil)
		return
	}

	// The request was transmitted fine, but a pending or failed payment is
	// still a rejection. Business decision, not a transport error.
	if !tx.Successful() {
		utils.Failed(c, "Transaction not successful", json.RawMessage(tx.Raw))
		return
	}

	// Guard against tampered client-side price computation: the caller's
	// expectation must match the provider's authoritative values exactly.
	if req.ExpectedAmount != nil && tx.Amount != *req.ExpectedAmount {
		utils.Failed(c, fmt.Sprintf("Amount mismatch (expected %v, got %v)", *req.ExpectedAmount, tx.Amount), json.RawMessage(tx.Raw))
		return
	}
	if req.Currency != "" && tx.Currency != "" && tx.Currency != req.Currency {
		utils.Failed(c, fmt.Sprintf("Currency mismatch (expected %s, got %s)", req.Currency, tx.Currency), json.RawMessage(tx.Raw))
		return
	}

	finalTransactionID := tx.TransactionID()
	if finalTransactionID == "" {
		finalTransactionID = transactionID
	}
	finalTxRef := tx.TxRef
	if finalTxRef == "" {
		finalTxRef = req.TxRef
	}

	result, err := vc.Engine.RecordConfirmedPayment(c.Request.Context(), brandID, payments.ConfirmedPayment{
		TransactionID: finalTransactionID,
		TxRef:         finalTxRef,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		RawPayload:    tx.Raw,
		Extra:         req.OrderData,
		QuoteID:       req.QuoteID,
	})
	if err != nil {
		utils.LogError("Verification recording failed for transaction %s: %v", finalTransactionID, err)
		utils.RespondError(c, utils.StoreError("Internal server error", err))
		return
	}

	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{
			"status":           "success",
			"verified":         true,
			"alreadyProcessed": true,
			"orderDoc":         result.Order,
		})
		return
	}

	utils.LogInfo("Payment verified and order created: %s", result.Order.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"verified": true,
		"orderId":  result.Order.ID,
		"data":     json.RawMessage(tx.Raw),
	})
}
