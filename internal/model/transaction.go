package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxCancelled TransactionStatus = "cancelled"
	TxRefunded  TransactionStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentDigitalWallet, PaymentBankTransfer:
		return true
	}
	return false
}

type Transaction struct {
	BaseModel
	TransactionNumber string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_number"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User             `json:"user,omitempty" validate:"-"`
	CustomerName      *string           `json:"customer_name,omitempty"`
	CustomerPhone     *string           `json:"customer_phone,omitempty"`
	Subtotal          decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"subtotal"`
	TaxAmount         decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"tax_amount"`
	DiscountAmount    decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"discount_amount"`
	TotalAmount       decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"total_amount"`
	PaymentMethod     PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentAmount     decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"payment_amount"`
	ChangeAmount      decimal.Decimal   `gorm:"type:decimal(12,4);not null" json:"change_amount"`
	Status            TransactionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes             *string           `json:"notes,omitempty"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// TransactionItem is the immutable line-item snapshot of a sale. UnitPrice
// is captured at sale time and never follows later product price changes.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product        `json:"product,omitempty" validate:"-"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"total_price"`
}
