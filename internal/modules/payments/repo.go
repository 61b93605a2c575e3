package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"subbazar.com/app/internal/modules/orders"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// SubmitTx upserts the proof keyed by order_id and advances the order to
// payment_submitted in one transaction. Either both land or neither does.
func (r *Repo) SubmitTx(ctx context.Context, p *PaymentProof) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// row lock so a concurrent admin decision serializes against us
		var ord orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ord, "id = ?", p.OrderID).Error; err != nil {
			return err
		}
		if !orders.ProofAllowed(ord.Status) {
			return ErrOrderNotPayable
		}

		if err := tx.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "order_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"email", "transaction_ref", "evidence_url", "status", "submitted_at", "updated_at",
				}),
			}).
			Create(p).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Model(&orders.Order{}).
			Where("id = ? AND status IN ?", ord.ID, []string{orders.StatusPendingPayment, orders.StatusPaymentSubmitted}).
			Updates(map[string]any{
				"status":     orders.StatusPaymentSubmitted,
				"updated_at": time.Now(),
			}).Error
	})
}

// Transact adapts gorm's transaction to the VerifyStore contract.
func (r *Repo) Transact(ctx context.Context, fn func(tx VerifyTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormVerifyTx{tx: tx})
	})
}

type gormVerifyTx struct{ tx *gorm.DB }

func (g *gormVerifyTx) ProofForUpdate(ctx context.Context, proofID string) (PaymentProof, error) {
	var p PaymentProof
	err := g.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", proofID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PaymentProof{}, ErrProofNotFound
	}
	return p, err
}

func (g *gormVerifyTx) SetProofStatus(ctx context.Context, proofID, status, decidedBy string, at time.Time) error {
	return g.tx.WithContext(ctx).Model(&PaymentProof{}).
		Where("id = ?", proofID).
		Updates(map[string]any{
			"status":     status,
			"decided_at": at,
			"decided_by": decidedBy,
			"updated_at": at,
		}).Error
}

func (g *gormVerifyTx) AdvanceOrderStatus(ctx context.Context, orderID, to string, at time.Time) (int64, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	if to == orders.StatusPaid {
		updates["paid_at"] = at
	}
	res := g.tx.WithContext(ctx).Model(&orders.Order{}).
		// optimistic guard: terminal orders are never re-entered
		Where("id = ? AND status IN ?", orderID, []string{orders.StatusPendingPayment, orders.StatusPaymentSubmitted}).
		Updates(updates)
	return res.RowsAffected, res.Error
}

type AdminListParams struct {
	Status   string // optional: submitted|approved|rejected
	Page     int
	PageSize int
}

type AdminListResult struct {
	Items []PaymentProof
	Total int64
}

// AdminList feeds the verification queue. The default view is the undecided
// backlog, oldest first.
func (r *Repo) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	base := r.db.WithContext(ctx).Model(&PaymentProof{})
	switch status := strings.TrimSpace(in.Status); status {
	case "", StatusSubmitted:
		base = base.Where("status IN ?", []string{StatusSubmitted, "pending"})
	default:
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return AdminListResult{}, err
	}

	var items []PaymentProof
	if err := base.
		Order("submitted_at ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return AdminListResult{}, err
	}
	return AdminListResult{Items: items, Total: total}, nil
}

// ByOrder returns the proof for an order, if any. Admin detail takes the
// first (the data model keeps at most one per order via the unique index).
func (r *Repo) ByOrder(ctx context.Context, orderID string) (PaymentProof, error) {
	var p PaymentProof
	err := r.db.WithContext(ctx).First(&p, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PaymentProof{}, ErrProofNotFound
	}
	return p, err
}
