package models

import "time"

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

// Refund statuses and types
const (
	RefundNone       = "NONE"
	RefundRequested  = "REQUESTED"
	RefundProcessing = "PROCESSING"
	RefundCompleted  = "COMPLETED"

	RefundTypeCredit = "CREDIT"
	RefundTypeCash   = "CASH"
)

// Payout transfer statuses
const (
	TransferPending = "pending"
	TransferPaid    = "paid"
	TransferFailed  = "failed"
	TransferSkipped = "skipped"
)

type Order struct {
	ID                 uint   `gorm:"primarykey"`
	BuyerID            uint   `gorm:"index;not null"`
	Country            string `gorm:"size:8"`
	Currency           string `gorm:"size:8;default:'usd'"`
	ItemsSubtotalCents int64  `gorm:"not null"`
	ShippingCents      int64  `gorm:"not null"`
	GiftWrapCents      int64  `gorm:"not null"`
	TaxCents           int64  `gorm:"not null"`
	OrderSubtotalCents int64  `gorm:"not null"`
	PlatformFeeCents   int64  `gorm:"not null"`
	ProcessingFeeCents int64  `gorm:"not null"`
	AdFeeCents         int64  `gorm:"not null"`
	FeesTotalCents     int64  `gorm:"not null"`
	SellerPayoutCents  int64  `gorm:"not null"`
	OrderTotalCents    int64  `gorm:"not null"`
	ProcessingRule     string `gorm:"size:16"`
	AdsEnabledAtSale   bool   `gorm:"<-:create"`
	PaymentStatus      string `gorm:"index;default:'pending'"`
	RefundStatus       string `gorm:"default:'NONE'"`
	RefundType         string
	RefundReference    string
	CheckoutSessionID  string `gorm:"index"`
	PaymentIntentID    string
	PaidAt             *time.Time
	Items              []OrderItem   `gorm:"foreignKey:OrderID"`
	Sellers            []OrderSeller `gorm:"foreignKey:OrderID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItem struct {
	ID             uint   `gorm:"primarykey"`
	OrderID        uint   `gorm:"index;not null"`
	ListingID      uint   `gorm:"not null"`
	SellerID       uint   `gorm:"index;not null"`
	Title          string `gorm:"not null"`
	UnitPriceCents int64  `gorm:"not null"`
	Quantity       int    `gorm:"not null"`
	GiftWrapCents  int64  `gorm:"default:0"`
	ShippingCents  int64  `gorm:"default:0"` // allocated share of order shipping
}

// OrderSeller is one seller's share of an order and its payout.
type OrderSeller struct {
	ID                 uint  `gorm:"primarykey"`
	OrderID            uint  `gorm:"uniqueIndex:idx_order_seller;not null"`
	SellerID           uint  `gorm:"uniqueIndex:idx_order_seller;not null"`
	ItemsSubtotalCents int64 `gorm:"not null"`
	ShippingCents      int64 `gorm:"not null"`
	GiftWrapCents      int64 `gorm:"not null"`
	TaxCents           int64 `gorm:"not null"`
	OrderSubtotalCents int64 `gorm:"not null"`
	PlatformFeeCents   int64 `gorm:"not null"`
	ProcessingFeeCents int64 `gorm:"not null"`
	AdFeeCents         int64 `gorm:"not null"`
	FeesTotalCents     int64 `gorm:"not null"`
	SellerPayoutCents  int64 `gorm:"not null"`
	AdsEnabledAtSale   bool  `gorm:"<-:create"`
	TransferID         string
	TransferStatus     string `gorm:"default:'pending'"`
	TransferError      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
