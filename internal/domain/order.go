package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// OrderItem is a frozen snapshot of one cart line taken at checkout time.
// Later catalog price changes never affect an existing order.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// Order represents one checkout attempt tied to a payment-gateway order.
// It is created pending, then either marked paid with the gateway payment
// id attached, or deleted when the payment fails. Only successful orders
// are retained.
type Order struct {
	ID              string
	BuyerID         string
	DeliveryAddress string
	City            string
	State           string
	ZipCode         string
	PhoneNumber     string
	TotalAmount     float64
	PaymentStatus   PaymentStatus
	GatewayOrderID  string
	// GatewayPaymentID stays empty until the payment is confirmed.
	GatewayPaymentID string
	Items            []OrderItem
	CreatedAt        time.Time
}
