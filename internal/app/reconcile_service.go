package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
	"github.com/ranju12345252/ecommerce-final/internal/gateway"
	"github.com/ranju12345252/ecommerce-final/internal/metrics"
)

// OrderRepository is the write path for orders. Reconcile relies on
// GetByGatewayOrderIDForUpdate holding a row lock for the duration of the
// surrounding transaction, so two concurrent reconciles for the same order
// serialize on the database.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, order domain.Order) error
	GetByGatewayOrderIDForUpdate(ctx context.Context, gatewayOrderID string) (domain.Order, error)
	MarkPaid(ctx context.Context, orderID, gatewayPaymentID string) error
	Delete(ctx context.Context, orderID string) error
}

// InventoryLedger holds the authoritative stock counts. TryDecrement is
// atomic and never produces a negative stock value.
type InventoryLedger interface {
	TryDecrement(ctx context.Context, productID string, quantity int) (int, error)
	Restore(ctx context.Context, productID string, quantity int) error
}

// Notifier publishes order lifecycle events after the transaction commits.
// Implementations must not block reconciliation; failures are logged and
// dropped.
type Notifier interface {
	OrderPaid(ctx context.Context, order domain.Order)
	OrderPaymentFailed(ctx context.Context, gatewayOrderID string)
}

// SignatureVerifier checks a client confirmation signature.
type SignatureVerifier func(gatewayOrderID, gatewayPaymentID, signature, secret string) bool

// ReconcileService is the single entry point both confirmation channels
// funnel through: the synchronous client call and the asynchronous gateway
// webhook. Whichever arrives first wins; the other sees the terminal state.
type ReconcileService struct {
	orders    OrderRepository
	inventory InventoryLedger
	carts     CartReader
	verify    SignatureVerifier
	keySecret string
	notifier  Notifier
	logger    *zap.Logger
}

func NewReconcileService(orders OrderRepository, inventory InventoryLedger, carts CartReader, keySecret string, opts ...ReconcileOption) *ReconcileService {
	svc := &ReconcileService{
		orders:    orders,
		inventory: inventory,
		carts:     carts,
		verify:    gateway.VerifyPaymentSignature,
		keySecret: keySecret,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReconcileOption func(*ReconcileService)

// WithNotifier attaches a post-commit event publisher.
func WithNotifier(n Notifier) ReconcileOption {
	return func(s *ReconcileService) {
		s.notifier = n
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) ReconcileOption {
	return func(s *ReconcileService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSignatureVerifier overrides the HMAC check (tests).
func WithSignatureVerifier(v SignatureVerifier) ReconcileOption {
	return func(s *ReconcileService) {
		if v != nil {
			s.verify = v
		}
	}
}

// Reconcile applies one confirmation event to its order. It is idempotent:
// a duplicate event, or the second of the two racing channels, observes the
// paid order and changes nothing. requesterID identifies the authenticated
// caller on the client channel and is ignored for webhooks.
//
// A zero Order with a nil error means the event terminated in deletion (a
// failed payment) or was a no-op against an already-deleted order.
func (s *ReconcileService) Reconcile(ctx context.Context, event domain.ConfirmationEvent, requesterID string) (domain.Order, error) {
	var (
		result        domain.Order
		newlyPaid     bool
		failedDeleted bool
		rejectErr     error
	)

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByGatewayOrderIDForUpdate(txCtx, event.GatewayOrderID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) && event.Outcome == domain.OutcomeFailed {
				// The failure path may already have removed the order.
				// Repeating the deletion is a no-op, not an error.
				return nil
			}
			return err
		}

		if order.PaymentStatus == domain.PaymentStatusPaid {
			result = order
			return nil
		}

		if event.Channel == domain.ChannelClient {
			if order.BuyerID != requesterID {
				return domain.ErrUnauthorized
			}
			if !s.verify(event.GatewayOrderID, event.GatewayPaymentID, event.Signature, s.keySecret) {
				// A forged confirmation must not leave a dangling pending
				// order. The deletion commits; the rejection surfaces after.
				if err := s.orders.Delete(txCtx, order.ID); err != nil {
					return err
				}
				rejectErr = domain.ErrInvalidSignature
				return nil
			}
		}

		if event.Outcome == domain.OutcomeFailed {
			if err := s.orders.Delete(txCtx, order.ID); err != nil {
				return err
			}
			failedDeleted = true
			return nil
		}

		for _, item := range order.Items {
			if _, err := s.inventory.TryDecrement(txCtx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					// Money was captured but stock ran out. Roll back every
					// decrement and leave the order pending for operator
					// review rather than dropping a captured payment.
					return fmt.Errorf("%w: product %s", domain.ErrOversold, item.ProductID)
				}
				return err
			}
		}

		if err := s.orders.MarkPaid(txCtx, order.ID, event.GatewayPaymentID); err != nil {
			return err
		}
		order.PaymentStatus = domain.PaymentStatusPaid
		order.GatewayPaymentID = event.GatewayPaymentID
		result = order
		newlyPaid = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOversold) {
			metrics.OversoldTotal.Inc()
			s.logger.Error("captured payment cannot be fulfilled",
				zap.String("gateway_order_id", event.GatewayOrderID),
				zap.Error(err),
			)
		}
		metrics.ReconcilesTotal.WithLabelValues(string(event.Channel), metrics.ResultError).Inc()
		return domain.Order{}, err
	}
	if rejectErr != nil {
		metrics.ReconcilesTotal.WithLabelValues(string(event.Channel), metrics.ResultError).Inc()
		s.logger.Warn("confirmation rejected, pending order deleted",
			zap.String("gateway_order_id", event.GatewayOrderID),
		)
		return domain.Order{}, rejectErr
	}

	metrics.ReconcilesTotal.WithLabelValues(string(event.Channel), metrics.ResultOK).Inc()
	if newlyPaid {
		s.afterPaid(ctx, result)
	}
	if failedDeleted {
		s.logger.Info("failed payment, order deleted",
			zap.String("gateway_order_id", event.GatewayOrderID),
		)
		if s.notifier != nil {
			s.notifier.OrderPaymentFailed(ctx, event.GatewayOrderID)
		}
	}
	return result, nil
}

// afterPaid runs the post-commit side effects. They are best-effort and
// never fail the reconciliation that already committed.
func (s *ReconcileService) afterPaid(ctx context.Context, order domain.Order) {
	if err := s.carts.Clear(ctx, order.BuyerID); err != nil {
		s.logger.Warn("cart clear after payment failed",
			zap.String("buyer_id", order.BuyerID),
			zap.Error(err),
		)
	}
	if s.notifier != nil {
		s.notifier.OrderPaid(ctx, order)
	}
	s.logger.Info("order paid",
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", order.GatewayOrderID),
		zap.String("gateway_payment_id", order.GatewayPaymentID),
	)
}
