package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/serac-labs/seracpay/models"
	"gorm.io/gorm"
)

// GormOrderStore backs OrderStore with the shared Postgres connection.
type GormOrderStore struct {
	DB *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{DB: db}
}

func (s *GormOrderStore) FindByTransactionID(ctx context.Context, brandID, transactionID string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Where("brand_id = ? AND transaction_id = ?", brandID, transactionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *GormOrderStore) FindByTrackingRef(ctx context.Context, brandID, trackingRef string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Where("brand_id = ? AND tracking_ref = ?", brandID, trackingRef).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *GormOrderStore) Create(ctx context.Context, order *models.Order) error {
	err := s.DB.WithContext(ctx).Create(order).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateTransaction
	}
	return err
}

func (s *GormOrderStore) ListByBrand(ctx context.Context, brandID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("id").
		Find(&orders).Error
	return orders, err
}

// GormQuoteStore backs QuoteStore with the shared Postgres connection.
type GormQuoteStore struct {
	DB *gorm.DB
}

func NewGormQuoteStore(db *gorm.DB) *GormQuoteStore {
	return &GormQuoteStore{DB: db}
}

func (s *GormQuoteStore) FindByTxRef(ctx context.Context, brandID, txRef string) (*models.Quote, error) {
	var quote models.Quote
	err := s.DB.WithContext(ctx).
		Where("brand_id = ? AND tx_ref = ?", brandID, txRef).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (s *GormQuoteStore) MarkPaid(ctx context.Context, brandID, quoteID, orderID string, paidAt models.FlexTime) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Quote{}).
		Where("brand_id = ? AND id = ?", brandID, quoteID).
		Updates(map[string]interface{}{
			"status":   models.QuoteStatusPaid,
			"order_id": orderID,
			"paid_at":  paidAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}
