package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// ErrUnhandledEvent marks webhook event types outside this service's
// concern. Callers should acknowledge them so the gateway stops retrying.
var ErrUnhandledEvent = errors.New("unhandled webhook event type")

const (
	eventPaymentCaptured = "payment.captured"
	eventPaymentFailed   = "payment.failed"
)

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent maps a raw provider payload to a typed confirmation
// event. Signature verification must happen before calling this.
func ParseWebhookEvent(payload []byte) (domain.ConfirmationEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return domain.ConfirmationEvent{}, fmt.Errorf("parse webhook payload: %w", err)
	}

	var outcome domain.PaymentOutcome
	switch env.Event {
	case eventPaymentCaptured:
		outcome = domain.OutcomeCaptured
	case eventPaymentFailed:
		outcome = domain.OutcomeFailed
	default:
		return domain.ConfirmationEvent{}, fmt.Errorf("%w: %q", ErrUnhandledEvent, env.Event)
	}

	entity := env.Payload.Payment.Entity
	if entity.OrderID == "" {
		return domain.ConfirmationEvent{}, errors.New("webhook payload missing order_id")
	}

	return domain.ConfirmationEvent{
		GatewayOrderID:   entity.OrderID,
		GatewayPaymentID: entity.ID,
		Outcome:          outcome,
		Channel:          domain.ChannelWebhook,
	}, nil
}
