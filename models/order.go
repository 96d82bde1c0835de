package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Order status constants. This service only ever writes "paid"; later
// transitions (shipped, delivered, ...) belong to the fulfilment system.
const (
	OrderStatusPaid = "paid"
)

// Order is the durable record of a confirmed payment. Exactly one order
// exists per provider transaction id within a brand; orders are created by
// the confirmation engine and never mutated here afterward.
type Order struct {
	ID              string        `gorm:"primaryKey;size:40" json:"orderId"`
	BrandID         string        `gorm:"size:64;uniqueIndex:idx_orders_brand_tx,priority:1;index:idx_orders_brand_tracking,priority:1" json:"brandId"`
	TransactionID   string        `gorm:"size:64;uniqueIndex:idx_orders_brand_tx,priority:2" json:"transaction_id"`
	TxRef           string        `gorm:"size:128;index" json:"tx_ref"`
	Amount          float64       `json:"amount"`
	Currency        string        `gorm:"size:8" json:"currency"`
	Status          string        `gorm:"size:32" json:"status"`
	TrackingRef     string        `gorm:"size:64;index:idx_orders_brand_tracking,priority:2" json:"trackingRef,omitempty"`
	StatusHistory   StatusHistory `gorm:"type:jsonb" json:"statusHistory,omitempty"`
	ProviderPayload RawJSON       `gorm:"type:jsonb" json:"provider_payload,omitempty"`
	Extra           JSONMap       `gorm:"type:jsonb" json:"extra,omitempty"`
	CreatedAt       FlexTime      `gorm:"type:jsonb" json:"createdAt"`
	VerifiedAt      FlexTime      `gorm:"type:jsonb" json:"verifiedAt,omitempty"`
}

// StatusChange is one entry in an order's append-only status timeline.
type StatusChange struct {
	Status    string   `json:"status"`
	ChangedAt FlexTime `json:"changedAt"`
}

// StatusHistory is the ordered status timeline, stored as a JSONB array.
type StatusHistory []StatusChange

// Scan implements sql.Scanner.
func (h *StatusHistory) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*h = nil
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("cannot scan %T into StatusHistory", value)
	}
}

// Value implements driver.Valuer.
func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
