package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

func TestHandleVerifyPayment(t *testing.T) {
	t.Parallel()

	paid := domain.Order{
		ID:               "order-1",
		BuyerID:          "buyer-1",
		PaymentStatus:    domain.PaymentStatusPaid,
		GatewayOrderID:   "order_gw_1",
		GatewayPaymentID: "pay_1",
	}

	validBody := `{"order_id":"order_gw_1","payment_id":"pay_1","signature":"deadbeef"}`

	tests := []struct {
		name           string
		method         string
		buyerID        string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "paid",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           validBody,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"payment_status":"paid"`,
		},
		{
			name:           "missing buyer header",
			method:         http.MethodPost,
			body:           validBody,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid body",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidRequestBody,
		},
		{
			name:           "missing signature",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           `{"order_id":"order_gw_1","payment_id":"pay_1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeMissingRequiredField,
		},
		{
			name:           "invalid signature",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           validBody,
			serviceErr:     domain.ErrInvalidSignature,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidSignature,
		},
		{
			name:           "not the buyer",
			method:         http.MethodPost,
			buyerID:        "buyer-2",
			body:           validBody,
			serviceErr:     domain.ErrUnauthorized,
			expectedStatus: http.StatusForbidden,
			expectedSubstr: codeUnauthorized,
		},
		{
			name:           "order not found",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           validBody,
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeOrderNotFound,
		},
		{
			name:           "oversold",
			method:         http.MethodPost,
			buyerID:        "buyer-1",
			body:           validBody,
			serviceErr:     domain.ErrOversold,
			expectedStatus: http.StatusConflict,
			expectedSubstr: codeOversold,
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			buyerID:        "buyer-1",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubReconciler{order: paid, err: tt.serviceErr}

			req := httptest.NewRequest(tt.method, "/checkout/verify", strings.NewReader(tt.body))
			if tt.buyerID != "" {
				req.Header.Set(buyerIDHeader, tt.buyerID)
			}
			rec := httptest.NewRecorder()

			HandleVerifyPayment(svc).ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandleVerifyPayment_BuildsClientEvent(t *testing.T) {
	t.Parallel()

	svc := &stubReconciler{}
	body := `{"order_id":"order_gw_1","payment_id":"pay_1","signature":"deadbeef"}`

	req := httptest.NewRequest(http.MethodPost, "/checkout/verify", strings.NewReader(body))
	req.Header.Set(buyerIDHeader, "buyer-1")
	rec := httptest.NewRecorder()

	HandleVerifyPayment(svc).ServeHTTP(rec, req)

	if svc.gotRequester != "buyer-1" {
		t.Fatalf("expected requester buyer-1, got %q", svc.gotRequester)
	}
	event := svc.gotEvent
	if event.Channel != domain.ChannelClient {
		t.Fatalf("expected client channel, got %q", event.Channel)
	}
	if event.Outcome != domain.OutcomeCaptured {
		t.Fatalf("expected captured outcome, got %q", event.Outcome)
	}
	if event.GatewayOrderID != "order_gw_1" || event.GatewayPaymentID != "pay_1" || event.Signature != "deadbeef" {
		t.Fatalf("unexpected event fields: %+v", event)
	}
}

type stubReconciler struct {
	order        domain.Order
	err          error
	gotEvent     domain.ConfirmationEvent
	gotRequester string
}

func (s *stubReconciler) Reconcile(_ context.Context, event domain.ConfirmationEvent, requesterID string) (domain.Order, error) {
	s.gotEvent = event
	s.gotRequester = requesterID
	return s.order, s.err
}
