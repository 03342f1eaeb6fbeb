package models

// CartLine is one product's accumulated selection. Name, price and weight are
// copied from the catalog item when the line is first created and never
// refreshed afterwards, so a later catalog price change does not alter items
// already in the cart.
//
// The JSON field names are the persisted wire format: decoding the encoding of
// any valid cart must yield an equal cart.
type CartLine struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Weight   string `json:"weight"`
	Quantity int    `json:"quantity"`
}

// CartTotals are derived on demand, never stored.
type CartTotals struct {
	ItemCount int `json:"item_count"`
	Amount    int `json:"amount"`
}

// CartView is the read-only snapshot handed to the rendering layer: the line
// sequence in insertion order, derived totals, and the transient just-added
// product id (zero when the signal is not armed).
type CartView struct {
	Lines     []CartLine `json:"lines"`
	Totals    CartTotals `json:"totals"`
	JustAdded int        `json:"just_added,omitempty"`
}

type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type ChangeQuantityRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Delta     int `json:"delta"      validate:"required"`
}
