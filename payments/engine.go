package payments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/serac-labs/seracpay/models"
	"github.com/serac-labs/seracpay/repository"
	"github.com/serac-labs/seracpay/utils"
)

// Engine is the payment confirmation core shared by the webhook receiver and
// the verification endpoint. Both paths converge on RecordConfirmedPayment,
// which is idempotent with respect to the provider transaction id.
type Engine struct {
	Orders repository.OrderStore
	Quotes repository.QuoteStore

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewEngine wires the engine to its stores.
func NewEngine(orders repository.OrderStore, quotes repository.QuoteStore) *Engine {
	return &Engine{Orders: orders, Quotes: quotes, Now: time.Now}
}

// ConfirmedPayment carries the provider-authoritative values of a payment
// that has already been confirmed successful. Amount and currency come from
// the provider, never from the client.
type ConfirmedPayment struct {
	TransactionID string
	TxRef         string
	Amount        float64
	Currency      string

	// RawPayload is the provider's payload retained verbatim for audit.
	RawPayload json.RawMessage

	// Extra holds caller-supplied supplementary order fields (verification
	// path only). A trackingRef entry is lifted into the order's own column.
	Extra map[string]interface{}

	// QuoteID, when set, links the quote directly instead of by tx_ref.
	QuoteID string
}

// OrderResult is the outcome of recording a confirmed payment.
type OrderResult struct {
	Order            *models.Order
	AlreadyProcessed bool
}

// ExistingOrder runs the engine's idempotency check without recording
// anything: it returns the stored order for a transaction id, or nil when
// none exists. The verification endpoint uses it to short-circuit before
// making any outbound provider call.
func (e *Engine) ExistingOrder(ctx context.Context, brandID, transactionID string) (*models.Order, error) {
	if transactionID == "" {
		return nil, nil
	}
	order, err := e.Orders.FindByTransactionID(ctx, brandID, transactionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.WrapError(err, "order lookup failed")
	}
	return order, nil
}

// RecordConfirmedPayment persists the order for a confirmed payment exactly
// once per transaction id and then attempts quote linkage. The quote step is
// best-effort; its failure never affects the returned result.
//
// Deduplication is a query-then-insert check. Two confirmations for the same
// transaction racing concurrently can both observe "not found"; the unique
// (brand_id, transaction_id) index catches that window and the constraint
// violation is folded into the already-processed result.
func (e *Engine) RecordConfirmedPayment(ctx context.Context, brandID string, payment ConfirmedPayment) (*OrderResult, error) {
	if payment.TransactionID != "" {
		existing, err := e.Orders.FindByTransactionID(ctx, brandID, payment.TransactionID)
		if err == nil {
			utils.LogInfo("Transaction %s already processed for brand %s", payment.TransactionID, brandID)
			return &OrderResult{Order: existing, AlreadyProcessed: true}, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.WrapError(err, "order lookup failed")
		}
	}

	now := models.NewFlexTime(e.Now().UTC())
	order := &models.Order{
		ID:              uuid.NewString(),
		BrandID:         brandID,
		TransactionID:   payment.TransactionID,
		TxRef:           payment.TxRef,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Status:          models.OrderStatusPaid,
		StatusHistory:   models.StatusHistory{{Status: models.OrderStatusPaid, ChangedAt: now}},
		ProviderPayload: models.RawJSON(payment.RawPayload),
		CreatedAt:       now,
		VerifiedAt:      now,
	}

	if len(payment.Extra) > 0 {
		extra := make(models.JSONMap, len(payment.Extra))
		for k, v := range payment.Extra {
			extra[k] = v
		}
		if ref, ok := extra["trackingRef"].(string); ok {
			order.TrackingRef = ref
			delete(extra, "trackingRef")
		}
		if len(extra) > 0 {
			order.Extra = extra
		}
	}

	if err := e.Orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			existing, findErr := e.Orders.FindByTransactionID(ctx, brandID, payment.TransactionID)
			if findErr != nil {
				return nil, utils.WrapError(findErr, "duplicate order lookup failed")
			}
			utils.LogInfo("Concurrent duplicate for transaction %s caught by unique index", payment.TransactionID)
			return &OrderResult{Order: existing, AlreadyProcessed: true}, nil
		}
		return nil, utils.WrapError(err, "order create failed")
	}

	utils.LogInfo("Order %s created for transaction %s (brand %s)", order.ID, payment.TransactionID, brandID)

	e.LinkQuote(ctx, brandID, payment.TxRef, payment.QuoteID, order.ID)

	return &OrderResult{Order: order}, nil
}

// LinkQuote transitions the quote matching txRef (or the one named by
// quoteID) to Paid, stamping the order id and a paid timestamp. It is
// fire-and-forget: a missing quote is normal, and any store failure is
// logged and swallowed so it can never undo an already-committed order.
func (e *Engine) LinkQuote(ctx context.Context, brandID, txRef, quoteID, orderID string) {
	if quoteID == "" {
		if txRef == "" {
			return
		}
		quote, err := e.Quotes.FindByTxRef(ctx, brandID, txRef)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.LogDebug("No quote matches tx_ref %s (brand %s)", txRef, brandID)
			} else {
				utils.LogWarn("Quote lookup failed for tx_ref %s: %v", txRef, err)
			}
			return
		}
		quoteID = quote.ID
	}

	paidAt := models.NewFlexTime(e.Now().UTC())
	if err := e.Quotes.MarkPaid(ctx, brandID, quoteID, orderID, paidAt); err != nil {
		utils.LogWarn("Quote update failed for quote %s: %v", quoteID, err)
		return
	}
	utils.LogInfo("Quote %s marked as Paid (order %s)", quoteID, orderID)
}
