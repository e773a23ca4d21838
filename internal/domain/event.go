package domain

type PaymentOutcome string

const (
	OutcomeCaptured PaymentOutcome = "captured"
	OutcomeFailed   PaymentOutcome = "failed"
)

type ConfirmationChannel string

const (
	ChannelClient  ConfirmationChannel = "client"
	ChannelWebhook ConfirmationChannel = "webhook"
)

// ConfirmationEvent carries one payment confirmation from either channel.
// It is transient: events drive the order state transition and are not
// persisted themselves.
type ConfirmationEvent struct {
	GatewayOrderID   string
	GatewayPaymentID string
	// Signature is the client-submitted confirmation signature. Webhook
	// deliveries are authenticated over the raw payload before parsing,
	// so webhook events carry no signature here.
	Signature string
	Outcome   PaymentOutcome
	Channel   ConfirmationChannel
}
