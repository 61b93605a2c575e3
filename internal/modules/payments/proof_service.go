package payments

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/storage"
)

// OrderReader is the privilege-neutral order lookup keyed by id only. It must
// work for authenticated owners and anonymous guests alike; the email it
// returns is what the proof is bound to.
type OrderReader interface {
	GetSummary(ctx context.Context, id string) (orders.Order, error)
}

// ProofStore persists the proof and advances the order status as one
// transactional unit. A failure must leave neither half applied.
type ProofStore interface {
	SubmitTx(ctx context.Context, p *PaymentProof) error
}

type ProofService struct {
	ordersRepo OrderReader
	store      ProofStore
	files      storage.Storage
}

func NewProofService(ordersRepo OrderReader, store ProofStore, files storage.Storage) *ProofService {
	return &ProofService{ordersRepo: ordersRepo, store: store, files: files}
}

type SubmitInput struct {
	OrderID        string
	TransactionRef string
	Evidence       Evidence
}

type SubmitResult struct {
	ProofID     string
	OrderID     string
	EvidenceURL string
}

func (s *ProofService) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	ref := strings.TrimSpace(in.TransactionRef)
	if in.OrderID == "" || ref == "" {
		return SubmitResult{}, fmt.Errorf("%w: missing order id or transaction reference", ErrInvalidEvidence)
	}

	// The order's stored email is ground truth; client input never supplies it.
	ord, err := s.ordersRepo.GetSummary(ctx, in.OrderID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !orders.ProofAllowed(ord.Status) {
		return SubmitResult{}, ErrOrderNotPayable
	}

	// Fail fast: no upload attempt for bad files.
	if err := CheckEvidence(in.Evidence); err != nil {
		return SubmitResult{}, err
	}

	now := time.Now()
	key := fmt.Sprintf("%s_%d%s", ord.ID, now.UnixMilli(), EvidenceExt(in.Evidence.ContentType))
	put, err := s.files.Put(ctx, in.Evidence.Reader, storage.PutInput{
		Key:         key,
		Filename:    in.Evidence.Filename,
		ContentType: in.Evidence.ContentType,
		Size:        in.Evidence.Size,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrEvidenceUpload, err)
	}

	p := PaymentProof{
		ID:             uuid.NewString(),
		OrderID:        ord.ID,
		Email:          ord.CustomerEmail,
		TransactionRef: ref,
		EvidenceURL:    put.URL,
		Status:         StatusSubmitted,
		SubmittedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.SubmitTx(ctx, &p); err != nil {
		// transaction rolled back; order status untouched
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrProofSubmission, err)
	}

	log.Printf("payment proof submitted order=%s ref=%s", ord.ID, ref)
	return SubmitResult{ProofID: p.ID, OrderID: ord.ID, EvidenceURL: put.URL}, nil
}
