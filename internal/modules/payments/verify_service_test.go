package payments

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subbazar.com/app/internal/modules/identity"
	"subbazar.com/app/internal/modules/orders"
)

var adminCaller = identity.Caller{IdentityID: "adm-1", Email: "admin@subbazar.com", Roles: []string{identity.RoleAdmin}}

func submittedProof(t *testing.T, store *memStore, orderID string) string {
	t.Helper()
	svc := NewProofService(store, store, &fakeStorage{})
	res, err := svc.Submit(context.Background(), SubmitInput{
		OrderID:        orderID,
		TransactionRef: "TRX123",
		Evidence: Evidence{
			Reader:      bytes.NewReader(make([]byte, 1024)),
			Filename:    "receipt.png",
			ContentType: "image/png",
			Size:        1024,
		},
	})
	require.NoError(t, err)
	return res.ProofID
}

func TestDecide_ApproveRoundTrip(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")
	require.Equal(t, orders.StatusPaymentSubmitted, store.orders["ord-1"].Status)

	svc := NewVerifyService(store)
	res, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionApprove)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, res.ProofStatus)
	assert.Equal(t, orders.StatusPaid, res.OrderStatus)
	assert.False(t, res.Idempotent)

	assert.Equal(t, orders.StatusPaid, store.orders["ord-1"].Status)
	assert.NotNil(t, store.orders["ord-1"].PaidAt)
	p := store.proofs[proofID]
	assert.Equal(t, StatusApproved, p.Status)
	require.NotNil(t, p.DecidedBy)
	assert.Equal(t, "adm-1", *p.DecidedBy)
	assert.NotNil(t, p.DecidedAt)
}

func TestDecide_Reject(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")

	svc := NewVerifyService(store)
	res, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionReject)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, res.ProofStatus)
	assert.Equal(t, orders.StatusPaymentFailed, store.orders["ord-1"].Status)
	assert.Nil(t, store.orders["ord-1"].PaidAt)
}

func TestDecide_NonAdminRejected(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")

	svc := NewVerifyService(store)
	_, err := svc.Decide(context.Background(), identity.Caller{IdentityID: "u-1"}, proofID, DecisionApprove)
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, StatusSubmitted, store.proofs[proofID].Status, "no writes without the role")
}

func TestDecide_InvalidDecision(t *testing.T) {
	svc := NewVerifyService(newMemStore())
	_, err := svc.Decide(context.Background(), adminCaller, "p-1", "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecide_UnknownProof(t *testing.T) {
	svc := NewVerifyService(newMemStore())
	_, err := svc.Decide(context.Background(), adminCaller, "ghost", DecisionApprove)
	assert.ErrorIs(t, err, ErrProofNotFound)
}

func TestDecide_RepeatSameDecisionIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")

	svc := NewVerifyService(store)
	_, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionApprove)
	require.NoError(t, err)

	res, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionApprove)
	require.NoError(t, err)
	assert.True(t, res.Idempotent)
	assert.Equal(t, orders.StatusPaid, store.orders["ord-1"].Status, "terminal state untouched")
}

func TestDecide_ConflictingSecondDecision(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")

	svc := NewVerifyService(store)
	_, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionApprove)
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), adminCaller, proofID, DecisionReject)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	// nothing regressed
	assert.Equal(t, StatusApproved, store.proofs[proofID].Status)
	assert.Equal(t, orders.StatusPaid, store.orders["ord-1"].Status)
}

func TestDecide_OrderGuardMissSurfacesPartialFailure(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	proofID := submittedProof(t, store, "ord-1")

	// order forced into a terminal state behind the proof's back
	store.orders["ord-1"].Status = orders.StatusPaid

	svc := NewVerifyService(store)
	_, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionReject)
	assert.ErrorIs(t, err, ErrPartialVerification)

	// transaction rolled back: the proof write did not stick
	assert.Equal(t, StatusSubmitted, store.proofs[proofID].Status)
}

func TestDecide_LegacyPendingProofIsDecidable(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPaymentSubmitted, 1600)
	proofID := submittedProof(t, store, "ord-1")
	store.proofs[proofID].Status = "pending" // rows written by older tooling

	svc := NewVerifyService(store)
	res, err := svc.Decide(context.Background(), adminCaller, proofID, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, res.ProofStatus)
}
