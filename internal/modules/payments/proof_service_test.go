package payments

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subbazar.com/app/internal/modules/orders"
)

func pngEvidence(size int) Evidence {
	return Evidence{
		Reader:      bytes.NewReader(make([]byte, size)),
		Filename:    "receipt.png",
		ContentType: "image/png",
		Size:        int64(size),
	}
}

func TestSubmit_HappyPath(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	res, err := svc.Submit(context.Background(), SubmitInput{
		OrderID:        "ord-1",
		TransactionRef: "TRX123",
		Evidence:       pngEvidence(2 << 20), // 2MB PNG
	})
	require.NoError(t, err)

	assert.Equal(t, "ord-1", res.OrderID)
	assert.NotEmpty(t, res.ProofID)

	// evidence key derives from order id + timestamp, collision-free
	require.Len(t, files.puts, 1)
	assert.Regexp(t, regexp.MustCompile(`^ord-1_\d+\.png$`), files.puts[0].Key)

	// order advanced, proof bound to the order's stored email
	assert.Equal(t, orders.StatusPaymentSubmitted, store.orders["ord-1"].Status)
	p := store.proofs[res.ProofID]
	require.NotNil(t, p)
	assert.Equal(t, "guest@x.com", p.Email, "email comes from the order row, never the client")
	assert.Equal(t, "TRX123", p.TransactionRef)
	assert.Equal(t, StatusSubmitted, p.Status)
	assert.True(t, strings.HasPrefix(p.EvidenceURL, "https://cdn.test/"))
}

func TestSubmit_OversizeEvidenceNeverTouchesStorage(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID:        "ord-1",
		TransactionRef: "TRX123",
		Evidence:       pngEvidence(MaxEvidenceSize + 1),
	})
	assert.ErrorIs(t, err, ErrInvalidEvidence)
	assert.Empty(t, files.puts, "no upload attempt for rejected evidence")
	assert.Equal(t, orders.StatusPendingPayment, store.orders["ord-1"].Status)
}

func TestSubmit_DisallowedTypeNeverTouchesStorage(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	ev := pngEvidence(1024)
	ev.ContentType = "application/pdf"
	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID:        "ord-1",
		TransactionRef: "TRX123",
		Evidence:       ev,
	})
	assert.ErrorIs(t, err, ErrInvalidEvidence)
	assert.Empty(t, files.puts)
}

func TestSubmit_GifIsCustomerRejected(t *testing.T) {
	// gif/webp are admin-content types only
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	ev := pngEvidence(1024)
	ev.ContentType = "image/gif"
	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX123", Evidence: ev,
	})
	assert.ErrorIs(t, err, ErrInvalidEvidence)
}

func TestSubmit_UnknownOrder(t *testing.T) {
	store := newMemStore()
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ghost", TransactionRef: "TRX123", Evidence: pngEvidence(1024),
	})
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
	assert.Empty(t, files.puts)
}

func TestSubmit_PaidOrderNotPayable(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPaid, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX123", Evidence: pngEvidence(1024),
	})
	assert.ErrorIs(t, err, ErrOrderNotPayable)
	assert.Empty(t, files.puts)
}

func TestSubmit_UploadFailureLeavesOrderUntouched(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{fail: errBoom}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX123", Evidence: pngEvidence(1024),
	})
	assert.ErrorIs(t, err, ErrEvidenceUpload)
	assert.Equal(t, orders.StatusPendingPayment, store.orders["ord-1"].Status)
	assert.Empty(t, store.proofs)
}

func TestSubmit_StoreFailureSurfacesAsSubmissionError(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	store.failSubmit = errBoom
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX123", Evidence: pngEvidence(1024),
	})
	assert.ErrorIs(t, err, ErrProofSubmission)
	// rolled back: no proof, order status unchanged
	assert.Empty(t, store.proofs)
	assert.Equal(t, orders.StatusPendingPayment, store.orders["ord-1"].Status)
}

func TestSubmit_ResubmissionReplaces(t *testing.T) {
	store := newMemStore()
	store.addOrder("ord-1", "guest@x.com", orders.StatusPendingPayment, 1600)
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	first, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX123", Evidence: pngEvidence(1024),
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "TRX456", Evidence: pngEvidence(1024),
	})
	require.NoError(t, err)

	// still exactly one proof for the order, last write wins
	assert.Len(t, store.proofs, 1)
	assert.Equal(t, "TRX456", store.proofs[first.ProofID].TransactionRef)
}

func TestSubmit_MissingRef(t *testing.T) {
	store := newMemStore()
	files := &fakeStorage{}
	svc := NewProofService(store, store, files)

	_, err := svc.Submit(context.Background(), SubmitInput{
		OrderID: "ord-1", TransactionRef: "  ", Evidence: pngEvidence(1024),
	})
	assert.ErrorIs(t, err, ErrInvalidEvidence)
}
