package domain

// CartItem is a single line in a user's cart. Price is captured when the
// line is first added; later additions of the same product only bump the
// quantity.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Cart holds a user's pending selection of products. Total is derived from
// the items and must be recomputed after every mutation.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// NewCart returns an empty cart with a non-nil item slice so it marshals as
// an empty array rather than null.
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// RecalculateTotal recomputes Total as the sum of price*quantity over all
// items.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}

// Clone returns a copy of the cart that does not share its item slice with
// the receiver.
func (c *Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items, Total: c.Total}
}
