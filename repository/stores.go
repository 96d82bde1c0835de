package repository

import (
	"context"
	"errors"

	"github.com/serac-labs/seracpay/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateTransaction is returned when an order insert collides with the
// unique (brand_id, transaction_id) index. The confirmation engine maps it
// to an already-processed result.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// OrderStore is the order collection, partitioned by brand.
type OrderStore interface {
	FindByTransactionID(ctx context.Context, brandID, transactionID string) (*models.Order, error)
	FindByTrackingRef(ctx context.Context, brandID, trackingRef string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	ListByBrand(ctx context.Context, brandID string) ([]models.Order, error)
}

// QuoteStore is the quote collection, partitioned by brand.
type QuoteStore interface {
	FindByTxRef(ctx context.Context, brandID, txRef string) (*models.Quote, error)
	MarkPaid(ctx context.Context, brandID, quoteID, orderID string, paidAt models.FlexTime) error
}
