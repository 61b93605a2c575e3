package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"subbazar.com/app/internal/modules/catalog"
)

// ProductSource is the batch price lookup checkout validates against.
type ProductSource interface {
	PricesByID(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// Inserter persists the new order. The gorm implementation runs on the
// trusted credential: the acting identity may be an anonymous guest that the
// row policy would block from direct inserts. This is the only write that
// goes through it besides guest provisioning.
type Inserter interface {
	Insert(ctx context.Context, o *Order) error
}

type Service struct {
	products ProductSource
	store    Inserter
}

func NewService(products ProductSource, store Inserter) *Service {
	return &Service{products: products, store: store}
}

type CreateInput struct {
	Items  []ItemInput
	Email  string
	UserID *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.PricesByID(ctx, ids)
	if err != nil {
		return Order{}, fmt.Errorf("create order: price lookup: %w", err)
	}

	items, total, err := PriceItems(in.Items, products)
	if err != nil {
		return Order{}, err
	}

	snapshot, err := json.Marshal(items)
	if err != nil {
		return Order{}, fmt.Errorf("create order: snapshot: %w", err)
	}

	now := time.Now()
	o := Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		CustomerEmail: strings.ToLower(strings.TrimSpace(in.Email)),
		Items:         datatypes.JSON(snapshot),
		TotalAmount:   total,
		Currency:      "BDT",
		Status:        StatusPendingPayment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, &o); err != nil {
		return Order{}, fmt.Errorf("create order: insert: %w", err)
	}

	log.Printf("order created id=%s email=%s total=%d items=%d", o.ID, o.CustomerEmail, total, len(items))
	return o, nil
}

// DecodeItems unpacks the stored snapshot.
func DecodeItems(o Order) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
