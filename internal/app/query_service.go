package app

import (
	"context"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

type OrderReader interface {
	ListPaidByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
	GetWithItems(ctx context.Context, orderID string) (domain.Order, error)
}

// OrderQueryService serves the read paths: order history and single-order
// detail for the order's buyer.
type OrderQueryService struct {
	orders OrderReader
}

func NewOrderQueryService(orders OrderReader) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// ListBuyerOrders returns the buyer's successfully paid orders, newest
// first. Pending orders are in flight and never shown.
func (s *OrderQueryService) ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return s.orders.ListPaidByBuyer(ctx, buyerID)
}

// GetOrder returns one order with its items, restricted to its buyer.
func (s *OrderQueryService) GetOrder(ctx context.Context, orderID, requesterID string) (domain.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.BuyerID != requesterID {
		return domain.Order{}, domain.ErrUnauthorized
	}
	return order, nil
}
