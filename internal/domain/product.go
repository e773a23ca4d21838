package domain

// Product carries the catalog fields this service reads: the price that
// gets frozen into order items and the authoritative stock count.
type Product struct {
	ID    string
	Name  string
	Price float64
	Stock int
}
