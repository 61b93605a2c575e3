package orders

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPendingPayment   = "pending_payment"
	StatusPaymentSubmitted = "payment_submitted"
	StatusPaid             = "paid"
	StatusPaymentFailed    = "payment_failed"
)

// Order is the purchase intent. Items holds the frozen snapshot captured at
// creation time; later product edits never touch it.
type Order struct {
	ID            string         `gorm:"type:char(36);primaryKey"`
	UserID        *string        `gorm:"type:char(36);index:ix_orders_user_id"`
	CustomerEmail string         `gorm:"type:varchar(255);not null;index:ix_orders_customer_email"`
	Items         datatypes.JSON `gorm:"type:json;not null"`
	TotalAmount   int            `gorm:"not null"`
	Currency      string         `gorm:"type:char(3);not null;default:'BDT'"`
	Status        string         `gorm:"type:varchar(32);not null;index:ix_orders_status"`
	PaidAt        *time.Time     `gorm:"type:datetime(3)"`
	CreatedAt     time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt     time.Time      `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

// Item is one element of the order snapshot. Name and UnitPrice come from the
// product row at creation time, never from the client.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// NormalizeStatus folds the legacy labels older admin tooling wrote into the
// current set. Read-side only; nothing writes the old labels anymore.
func NormalizeStatus(s string) string {
	switch s {
	case "approved", "completed":
		return StatusPaid
	case "rejected":
		return StatusPaymentFailed
	default:
		return s
	}
}

// ProofAllowed reports whether a payment proof may still be submitted.
// Resubmission while a proof awaits review replaces the earlier one.
func ProofAllowed(status string) bool {
	return status == StatusPendingPayment || status == StatusPaymentSubmitted
}
