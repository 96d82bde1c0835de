package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/serac-labs/seracpay/models"
)

// MemoryOrderStore is an in-memory OrderStore used as a test double. It
// enforces the same (brand, transaction_id) uniqueness as the database.
type MemoryOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
	nextID int
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) FindByTransactionID(_ context.Context, brandID, transactionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].BrandID == brandID && s.orders[i].TransactionID == transactionID {
			order := s.orders[i]
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrderStore) FindByTrackingRef(_ context.Context, brandID, trackingRef string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].BrandID == brandID && s.orders[i].TrackingRef == trackingRef {
			order := s.orders[i]
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].BrandID == order.BrandID && s.orders[i].TransactionID == order.TransactionID {
			return ErrDuplicateTransaction
		}
	}
	if order.ID == "" {
		s.nextID++
		order.ID = fmt.Sprintf("order-%d", s.nextID)
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *MemoryOrderStore) ListByBrand(_ context.Context, brandID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for i := range s.orders {
		if s.orders[i].BrandID == brandID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

// Count reports the number of stored orders.
func (s *MemoryOrderStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// MemoryQuoteStore is an in-memory QuoteStore used as a test double.
type MemoryQuoteStore struct {
	mu     sync.Mutex
	quotes []models.Quote
}

func NewMemoryQuoteStore(seed ...models.Quote) *MemoryQuoteStore {
	return &MemoryQuoteStore{quotes: append([]models.Quote{}, seed...)}
}

func (s *MemoryQuoteStore) FindByTxRef(_ context.Context, brandID, txRef string) (*models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.quotes {
		if s.quotes[i].BrandID == brandID && s.quotes[i].TxRef == txRef {
			quote := s.quotes[i]
			return &quote, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryQuoteStore) MarkPaid(_ context.Context, brandID, quoteID, orderID string, paidAt models.FlexTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.quotes {
		if s.quotes[i].BrandID == brandID && s.quotes[i].ID == quoteID {
			s.quotes[i].Status = models.QuoteStatusPaid
			s.quotes[i].OrderID = orderID
			s.quotes[i].PaidAt = paidAt
			return nil
		}
	}
	return ErrNotFound
}

// Get returns a stored quote by id.
func (s *MemoryQuoteStore) Get(quoteID string) (models.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.quotes {
		if s.quotes[i].ID == quoteID {
			return s.quotes[i], true
		}
	}
	return models.Quote{}, false
}
