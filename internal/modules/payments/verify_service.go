package payments

import (
	"context"
	"fmt"
	"log"
	"time"

	"subbazar.com/app/internal/modules/identity"
)

// VerifyTx is the unit of work a decision runs in. ProofForUpdate must take a
// row lock so two admins cannot decide the same proof concurrently.
type VerifyTx interface {
	ProofForUpdate(ctx context.Context, proofID string) (PaymentProof, error)
	SetProofStatus(ctx context.Context, proofID, status, decidedBy string, at time.Time) error
	// AdvanceOrderStatus returns the number of rows the guarded update hit.
	AdvanceOrderStatus(ctx context.Context, orderID, to string, at time.Time) (int64, error)
}

type VerifyStore interface {
	Transact(ctx context.Context, fn func(tx VerifyTx) error) error
}

type VerifyService struct {
	store VerifyStore
}

func NewVerifyService(store VerifyStore) *VerifyService { return &VerifyService{store: store} }

type DecideResult struct {
	ProofID     string
	OrderID     string
	ProofStatus string
	OrderStatus string
	Idempotent  bool
}

// Decide moves a proof and its order out of the pending state together.
// Repeating an identical decision is a no-op success; a conflicting decision
// on a decided proof is rejected. The order update runs under an optimistic
// status guard; a zero-row hit aborts the transaction and is surfaced as
// ErrPartialVerification so the operator knows to re-inspect.
func (s *VerifyService) Decide(ctx context.Context, caller identity.Caller, proofID, decision string) (DecideResult, error) {
	if !caller.HasRole(identity.RoleAdmin) {
		return DecideResult{}, ErrNotAdmin
	}
	proofStatus, orderStatus, ok := decisionTargets(decision)
	if !ok {
		return DecideResult{}, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	var out DecideResult
	err := s.store.Transact(ctx, func(tx VerifyTx) error {
		p, err := tx.ProofForUpdate(ctx, proofID)
		if err != nil {
			return err
		}

		if !Undecided(p.Status) {
			if p.Status == proofStatus {
				// idempotent retry of the same decision
				out = DecideResult{
					ProofID:     p.ID,
					OrderID:     p.OrderID,
					ProofStatus: p.Status,
					OrderStatus: orderStatus,
					Idempotent:  true,
				}
				return nil
			}
			return ErrAlreadyDecided
		}

		now := time.Now()
		if err := tx.SetProofStatus(ctx, p.ID, proofStatus, caller.IdentityID, now); err != nil {
			return err
		}

		n, err := tx.AdvanceOrderStatus(ctx, p.OrderID, orderStatus, now)
		if err != nil {
			return fmt.Errorf("%w: order update: %v", ErrPartialVerification, err)
		}
		if n == 0 {
			// order already in a terminal state the guard refuses to touch
			return fmt.Errorf("%w: order %s not in a decidable state", ErrPartialVerification, p.OrderID)
		}

		out = DecideResult{
			ProofID:     p.ID,
			OrderID:     p.OrderID,
			ProofStatus: proofStatus,
			OrderStatus: orderStatus,
		}
		return nil
	})
	if err != nil {
		return DecideResult{}, err
	}

	if !out.Idempotent {
		log.Printf("payment proof decided proof=%s order=%s decision=%s by=%s", out.ProofID, out.OrderID, decision, caller.IdentityID)
	}
	return out, nil
}
