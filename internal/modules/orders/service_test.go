package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subbazar.com/app/internal/modules/catalog"
)

type fakeProducts struct {
	rows    map[string]catalog.Product
	queried [][]string
}

func (f *fakeProducts) PricesByID(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	f.queried = append(f.queried, ids)
	out := map[string]catalog.Product{}
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeInserter struct {
	inserted []Order
}

func (f *fakeInserter) Insert(_ context.Context, o *Order) error {
	f.inserted = append(f.inserted, *o)
	return nil
}

func TestCreate_TamperResistantTotal(t *testing.T) {
	products := &fakeProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Title: "Netflix Premium", Price: 1000, SalePrice: intPtr(800)},
	}}
	store := &fakeInserter{}
	svc := NewService(products, store)

	o, err := svc.Create(context.Background(), CreateInput{
		Items: []ItemInput{{ProductID: "p1", Quantity: 2}},
		Email: " Guest@X.com ",
	})
	require.NoError(t, err)

	assert.Equal(t, 1600, o.TotalAmount)
	assert.Equal(t, StatusPendingPayment, o.Status)
	assert.Equal(t, "guest@x.com", o.CustomerEmail)
	assert.Nil(t, o.UserID)
	assert.NotEmpty(t, o.ID)

	require.Len(t, store.inserted, 1)
	items, err := DecodeItems(store.inserted[0])
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Netflix Premium", items[0].Name, "snapshot name comes from the product row")
	assert.Equal(t, 800, items[0].UnitPrice, "snapshot price comes from the product row")
}

func TestCreate_UnknownProductNoInsert(t *testing.T) {
	products := &fakeProducts{rows: map[string]catalog.Product{}}
	store := &fakeInserter{}
	svc := NewService(products, store)

	_, err := svc.Create(context.Background(), CreateInput{
		Items: []ItemInput{{ProductID: "ghost", Quantity: 1}},
		Email: "guest@x.com",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, store.inserted, "failed validation must not persist anything")
}

func TestCreate_EmptyOrderNoLookup(t *testing.T) {
	products := &fakeProducts{rows: map[string]catalog.Product{}}
	store := &fakeInserter{}
	svc := NewService(products, store)

	_, err := svc.Create(context.Background(), CreateInput{Email: "guest@x.com"})
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, products.queried)
	assert.Empty(t, store.inserted)
}

func TestCreate_GuestWithExistingAccountStaysUnlinked(t *testing.T) {
	products := &fakeProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Title: "Spotify", Price: 250},
	}}
	store := &fakeInserter{}
	svc := NewService(products, store)

	// provisioning returned a nil identity id for the registered email;
	// the order is still created, unlinked
	o, err := svc.Create(context.Background(), CreateInput{
		Items:  []ItemInput{{ProductID: "p1", Quantity: 1}},
		Email:  "guest@x.com",
		UserID: nil,
	})
	require.NoError(t, err)
	assert.Nil(t, o.UserID)
	require.Len(t, store.inserted, 1)
	assert.Nil(t, store.inserted[0].UserID)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusPaid, NormalizeStatus("approved"))
	assert.Equal(t, StatusPaid, NormalizeStatus("completed"))
	assert.Equal(t, StatusPaymentFailed, NormalizeStatus("rejected"))
	assert.Equal(t, StatusPendingPayment, NormalizeStatus(StatusPendingPayment))
}
