package domain

// CartItem is a single cart line as read from the cart owner. UnitPrice is
// the catalog price at the moment of the read.
type CartItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// CartSnapshot is a consistent read-only view of a buyer's cart.
type CartSnapshot struct {
	BuyerID string
	Items   []CartItem
}

func (c CartSnapshot) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums quantity times unit price across all lines.
func (c CartSnapshot) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
