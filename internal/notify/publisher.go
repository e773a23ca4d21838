// Package notify publishes order lifecycle events to RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

const exchangeName = "orders"

// Publisher emits order events after reconciliation commits. Publishing is
// best-effort: a broker outage never fails a reconciliation.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, logger: logger}, nil
}

type orderPaidEvent struct {
	OrderID          string    `json:"order_id"`
	BuyerID          string    `json:"buyer_id"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	TotalAmount      float64   `json:"total_amount"`
	PaidAt           time.Time `json:"paid_at"`
}

type orderFailedEvent struct {
	GatewayOrderID string    `json:"gateway_order_id"`
	FailedAt       time.Time `json:"failed_at"`
}

func (p *Publisher) OrderPaid(ctx context.Context, order domain.Order) {
	p.publish(ctx, "order.paid", orderPaidEvent{
		OrderID:          order.ID,
		BuyerID:          order.BuyerID,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
		TotalAmount:      order.TotalAmount,
		PaidAt:           time.Now().UTC(),
	})
}

func (p *Publisher) OrderPaymentFailed(ctx context.Context, gatewayOrderID string) {
	p.publish(ctx, "order.payment_failed", orderFailedEvent{
		GatewayOrderID: gatewayOrderID,
		FailedAt:       time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal order event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}

	err = p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		p.logger.Warn("publish order event failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
