package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
	"github.com/ranju12345252/ecommerce-final/internal/gateway"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

// maxWebhookBody caps how much of a webhook payload is read.
const maxWebhookBody = 1 << 20

// HandleRazorpayWebhook returns an HTTP handler for the asynchronous gateway
// notification. The signature covers the raw request body, so the body is
// verified byte-for-byte before any parsing happens.
//
// Status codes are the gateway's retry contract: 2xx acknowledges, 4xx drops
// the delivery, 5xx asks the gateway to retry later.
func HandleRazorpayWebhook(webhookSecret string, svc PaymentReconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unreadable request body")
			return
		}

		if !gateway.VerifyWebhookSignature(payload, r.Header.Get(webhookSignatureHeader), webhookSecret) {
			writeError(w, http.StatusBadRequest, codeInvalidSignature, "invalid webhook signature")
			return
		}

		event, err := gateway.ParseWebhookEvent(payload)
		if err != nil {
			if errors.Is(err, gateway.ErrUnhandledEvent) {
				// Acknowledge event types we don't consume so the gateway
				// stops redelivering them.
				writeOK(w)
				return
			}
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid webhook payload")
			return
		}

		if _, err := svc.Reconcile(r.Context(), event, ""); err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderNotFound):
				// Nothing to reconcile against; retrying won't change that.
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			default:
				// Includes the oversold case: the payment is captured and the
				// order is still pending, so the gateway should redeliver.
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeOK(w)
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
