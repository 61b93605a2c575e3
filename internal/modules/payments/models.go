package payments

import (
	"time"

	"subbazar.com/app/internal/modules/orders"
)

const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// PaymentProof binds a manual transaction reference and an evidence image to
// exactly one order. OrderID carries a unique index so resubmission replaces
// instead of duplicating.
type PaymentProof struct {
	ID             string     `gorm:"type:char(36);primaryKey"`
	OrderID        string     `gorm:"type:char(36);not null;uniqueIndex:ux_payment_proofs_order_id"`
	Email          string     `gorm:"type:varchar(255);not null"`
	TransactionRef string     `gorm:"type:varchar(128);not null"`
	EvidenceURL    string     `gorm:"type:varchar(512);not null"`
	Status         string     `gorm:"type:varchar(32);not null;index:ix_payment_proofs_status"`
	SubmittedAt    time.Time  `gorm:"type:datetime(3);not null"`
	DecidedAt      *time.Time `gorm:"type:datetime(3)"`
	DecidedBy      *string    `gorm:"type:char(36)"`
	CreatedAt      time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt      time.Time  `gorm:"type:datetime(3);not null"`
}

func (PaymentProof) TableName() string { return "payment_proofs" }

// Undecided reports whether a proof is still waiting for review. Older rows
// carry "pending" instead of "submitted".
func Undecided(status string) bool {
	return status == StatusSubmitted || status == "pending"
}

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// decisionTargets maps an admin decision to the proof status and the order
// status it sets. The two always move together.
func decisionTargets(decision string) (proofStatus, orderStatus string, ok bool) {
	switch decision {
	case DecisionApprove:
		return StatusApproved, orders.StatusPaid, true
	case DecisionReject:
		return StatusRejected, orders.StatusPaymentFailed, true
	default:
		return "", "", false
	}
}
