package payments

import (
	"context"
	"errors"
	"io"
	"time"

	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/storage"
)

// memStore emulates the persistence layer for proof submission and
// verification: keyed rows, order-keyed proof upsert, and rollback-on-error
// transactions.
type memStore struct {
	orders  map[string]*orders.Order
	proofs  map[string]*PaymentProof // by proof id
	byOrder map[string]string        // order id -> proof id

	failSubmit error
}

func newMemStore() *memStore {
	return &memStore{
		orders:  map[string]*orders.Order{},
		proofs:  map[string]*PaymentProof{},
		byOrder: map[string]string{},
	}
}

func (m *memStore) addOrder(id, email, status string, total int) {
	m.orders[id] = &orders.Order{
		ID:            id,
		CustomerEmail: email,
		Status:        status,
		TotalAmount:   total,
		Currency:      "BDT",
	}
}

func (m *memStore) GetSummary(_ context.Context, id string) (orders.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrOrderNotFound
	}
	return *o, nil
}

func (m *memStore) SubmitTx(_ context.Context, p *PaymentProof) error {
	if m.failSubmit != nil {
		// transaction rolls back: nothing mutated
		return m.failSubmit
	}
	o, ok := m.orders[p.OrderID]
	if !ok {
		return orders.ErrOrderNotFound
	}
	if !orders.ProofAllowed(o.Status) {
		return ErrOrderNotPayable
	}

	if existing, ok := m.byOrder[p.OrderID]; ok {
		// keyed upsert: replace in place, keep the original proof id
		prev := m.proofs[existing]
		prev.Email = p.Email
		prev.TransactionRef = p.TransactionRef
		prev.EvidenceURL = p.EvidenceURL
		prev.Status = p.Status
		prev.SubmittedAt = p.SubmittedAt
		p.ID = prev.ID
	} else {
		cp := *p
		m.proofs[p.ID] = &cp
		m.byOrder[p.OrderID] = p.ID
	}
	o.Status = orders.StatusPaymentSubmitted
	return nil
}

func (m *memStore) Transact(_ context.Context, fn func(tx VerifyTx) error) error {
	tx := &memTx{store: m, snapshot: m.clone()}
	if err := fn(tx); err != nil {
		m.restore(tx.snapshot)
		return err
	}
	return nil
}

type memState struct {
	orders map[string]orders.Order
	proofs map[string]PaymentProof
}

func (m *memStore) clone() memState {
	s := memState{orders: map[string]orders.Order{}, proofs: map[string]PaymentProof{}}
	for k, v := range m.orders {
		s.orders[k] = *v
	}
	for k, v := range m.proofs {
		s.proofs[k] = *v
	}
	return s
}

func (m *memStore) restore(s memState) {
	for k, v := range s.orders {
		cp := v
		m.orders[k] = &cp
	}
	for k, v := range s.proofs {
		cp := v
		m.proofs[k] = &cp
	}
}

type memTx struct {
	store    *memStore
	snapshot memState
}

func (t *memTx) ProofForUpdate(_ context.Context, proofID string) (PaymentProof, error) {
	p, ok := t.store.proofs[proofID]
	if !ok {
		return PaymentProof{}, ErrProofNotFound
	}
	return *p, nil
}

func (t *memTx) SetProofStatus(_ context.Context, proofID, status, decidedBy string, at time.Time) error {
	p, ok := t.store.proofs[proofID]
	if !ok {
		return ErrProofNotFound
	}
	p.Status = status
	p.DecidedBy = &decidedBy
	p.DecidedAt = &at
	return nil
}

func (t *memTx) AdvanceOrderStatus(_ context.Context, orderID, to string, at time.Time) (int64, error) {
	o, ok := t.store.orders[orderID]
	if !ok {
		return 0, nil
	}
	// same optimistic guard as the SQL path
	if o.Status != orders.StatusPendingPayment && o.Status != orders.StatusPaymentSubmitted {
		return 0, nil
	}
	o.Status = to
	if to == orders.StatusPaid {
		o.PaidAt = &at
	}
	return 1, nil
}

// fakeStorage records puts and can be told to fail.
type fakeStorage struct {
	puts []storage.PutInput
	fail error
}

func (f *fakeStorage) Put(_ context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if f.fail != nil {
		return storage.PutResult{}, f.fail
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return storage.PutResult{}, err
	}
	f.puts = append(f.puts, in)
	return storage.PutResult{Key: in.Key, URL: "https://cdn.test/" + in.Key}, nil
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error { return nil }

var errBoom = errors.New("boom")
