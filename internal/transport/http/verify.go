package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// PaymentReconciler applies one confirmation event to its order. Both the
// client verify endpoint and the gateway webhook drive the same interface.
type PaymentReconciler interface {
	Reconcile(ctx context.Context, event domain.ConfirmationEvent, requesterID string) (domain.Order, error)
}

// HandleVerifyPayment returns an HTTP handler for the synchronous client
// confirmation. The client forwards the gateway's checkout result; the
// signature proves it came from the gateway and not the client itself.
func HandleVerifyPayment(svc PaymentReconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		buyerID := requesterID(r)
		if buyerID == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing buyer identity")
			return
		}

		var req verifyPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "order_id, payment_id and signature are required")
			return
		}

		order, err := svc.Reconcile(r.Context(), domain.ConfirmationEvent{
			GatewayOrderID:   req.OrderID,
			GatewayPaymentID: req.PaymentID,
			Signature:        req.Signature,
			Outcome:          domain.OutcomeCaptured,
			Channel:          domain.ChannelClient,
		}, buyerID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSignature):
				writeError(w, http.StatusBadRequest, codeInvalidSignature, err.Error())
			case errors.Is(err, domain.ErrUnauthorized):
				writeError(w, http.StatusForbidden, codeUnauthorized, err.Error())
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case errors.Is(err, domain.ErrOversold):
				writeError(w, http.StatusConflict, codeOversold, "payment captured but stock ran out")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orderResponseFrom(order))
	}
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}
