package models

// Quote status constants. Quotes are created by the checkout flow; this
// service only transitions them to Paid after a confirmed payment.
const (
	QuoteStatusPending = "Pending"
	QuoteStatusPaid    = "Paid"
)

// Quote is a pre-payment record created earlier in the checkout flow. The
// tx_ref links it to the order that eventually pays for it; the link is a
// soft reference, at most one quote is expected per tx_ref.
type Quote struct {
	ID        string   `gorm:"primaryKey;size:40" json:"quoteId"`
	BrandID   string   `gorm:"size:64;index:idx_quotes_brand_txref,priority:1" json:"brandId"`
	TxRef     string   `gorm:"size:128;index:idx_quotes_brand_txref,priority:2" json:"tx_ref"`
	Status    string   `gorm:"size:32" json:"status"`
	OrderID   string   `gorm:"size:40" json:"orderId,omitempty"`
	Amount    float64  `json:"amount,omitempty"`
	Currency  string   `gorm:"size:8" json:"currency,omitempty"`
	Details   JSONMap  `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt FlexTime `gorm:"type:jsonb" json:"createdAt"`
	PaidAt    FlexTime `gorm:"type:jsonb" json:"paidAt,omitempty"`
}
