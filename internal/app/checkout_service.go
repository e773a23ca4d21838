package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ranju12345252/ecommerce-final/internal/clock"
	"github.com/ranju12345252/ecommerce-final/internal/domain"
	"github.com/ranju12345252/ecommerce-final/internal/gateway"
	"github.com/ranju12345252/ecommerce-final/internal/metrics"
)

// CartReader supplies consistent snapshots of a buyer's cart and clears it
// after a successful payment. The cart itself is owned elsewhere; this
// service only consumes it.
type CartReader interface {
	Snapshot(ctx context.Context, buyerID string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, buyerID string) error
}

type CheckoutService struct {
	orders  OrderRepository
	carts   CartReader
	gateway gateway.Gateway
	clock   clock.Clock
	logger  *zap.Logger
}

func NewCheckoutService(orders OrderRepository, carts CartReader, gw gateway.Gateway, clk clock.Clock, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		orders:  orders,
		carts:   carts,
		gateway: gw,
		clock:   clk,
		logger:  logger,
	}
}

type CheckoutInput struct {
	BuyerID         string
	DeliveryAddress string
	City            string
	State           string
	ZipCode         string
	PhoneNumber     string
}

func (in CheckoutInput) validate() error {
	fields := []string{in.BuyerID, in.DeliveryAddress, in.City, in.State, in.ZipCode, in.PhoneNumber}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return domain.ErrMissingField
		}
	}
	return nil
}

// Checkout converts the buyer's cart into a pending order tied to a remote
// gateway order. All-or-nothing: if the gateway call fails nothing is
// persisted, and the cart is left untouched until the payment succeeds.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (domain.Order, error) {
	if err := in.validate(); err != nil {
		return domain.Order{}, err
	}

	cart, err := s.carts.Snapshot(ctx, in.BuyerID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.Order{}, domain.ErrEmptyCart
		}
		return domain.Order{}, err
	}
	if cart.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	// Total is computed once from the snapshot and never recomputed.
	total := cart.Total()
	receiptID := "order_rcptid_" + uuid.NewString()

	gatewayOrderID, err := s.gateway.CreateRemoteOrder(ctx, total, receiptID)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error("gateway order creation failed",
			zap.String("buyer_id", in.BuyerID),
			zap.Error(err),
		)
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		BuyerID:         in.BuyerID,
		DeliveryAddress: in.DeliveryAddress,
		City:            in.City,
		State:           in.State,
		ZipCode:         in.ZipCode,
		PhoneNumber:     in.PhoneNumber,
		TotalAmount:     total,
		PaymentStatus:   domain.PaymentStatusCreated,
		GatewayOrderID:  gatewayOrderID,
		Items:           make([]domain.OrderItem, 0, len(cart.Items)),
		CreatedAt:       s.clock.Now(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		metrics.CheckoutsTotal.WithLabelValues(metrics.ResultError).Inc()
		return domain.Order{}, err
	}

	metrics.CheckoutsTotal.WithLabelValues(metrics.ResultOK).Inc()
	s.logger.Info("checkout complete",
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", gatewayOrderID),
		zap.Float64("total", total),
	)
	return order, nil
}
