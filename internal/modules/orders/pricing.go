package orders

import (
	"fmt"

	"subbazar.com/app/internal/modules/catalog"
)

// ItemInput is what the client sends: product id and quantity only. Any price
// the client includes alongside is ignored; the server recomputes everything.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// PriceItems builds the enriched snapshot from authoritative product rows.
// Every referenced id must resolve or the whole order is rejected; the
// effective unit price is the sale price when set. Pure over the fetched map.
func PriceItems(items []ItemInput, products map[string]catalog.Product) ([]Item, int, error) {
	if len(items) == 0 {
		return nil, 0, ErrEmptyOrder
	}

	out := make([]Item, 0, len(items))
	total := 0
	for _, in := range items {
		p, ok := products[in.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrProductNotFound, in.ProductID)
		}
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		unit := p.EffectivePrice()
		line := unit * qty
		out = append(out, Item{
			ProductID: p.ID,
			Name:      p.Title,
			UnitPrice: unit,
			Quantity:  qty,
			LineTotal: line,
		})
		total += line
	}

	if total <= 0 {
		return nil, 0, ErrInvalidTotal
	}
	return out, total, nil
}
