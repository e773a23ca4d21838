package gateway

import (
	"context"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// Gateway creates payment orders with the external provider.
type Gateway interface {
	CreateRemoteOrder(ctx context.Context, amount float64, receiptID string) (string, error)
}

// Razorpay wraps the provider SDK client. Configuration is immutable after
// construction; the adapter holds no other state.
type Razorpay struct {
	client   *razorpay.Client
	currency string
}

func NewRazorpay(keyID, keySecret, currency string) *Razorpay {
	return &Razorpay{
		client:   razorpay.NewClient(keyID, keySecret),
		currency: currency,
	}
}

// CreateRemoteOrder registers a payment order with the provider and returns
// the gateway order id. Amount is in major currency units; the provider API
// takes minor units, and this adapter owns that conversion.
func (r *Razorpay) CreateRemoteOrder(ctx context.Context, amount float64, receiptID string) (string, error) {
	data := map[string]interface{}{
		"amount":          minorUnits(amount),
		"currency":        r.currency,
		"receipt":         receiptID,
		"payment_capture": 1,
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create remote order: %v", domain.ErrGateway, err)
	}

	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: create remote order: response has no id", domain.ErrGateway)
	}
	return id, nil
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
