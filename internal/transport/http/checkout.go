package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ranju12345252/ecommerce-final/internal/app"
	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// CheckoutStarter is the minimal interface needed to start a checkout.
type CheckoutStarter interface {
	Checkout(ctx context.Context, in app.CheckoutInput) (domain.Order, error)
}

// HandleCheckout returns an HTTP handler that turns the caller's cart into
// a pending order and hands back the gateway order id the client pays
// against.
func HandleCheckout(svc CheckoutStarter) http.HandlerFunc {
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

		var req checkoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.Checkout(r.Context(), app.CheckoutInput{
			BuyerID:         buyerID,
			DeliveryAddress: req.DeliveryAddress,
			City:            req.City,
			State:           req.State,
			ZipCode:         req.ZipCode,
			PhoneNumber:     req.PhoneNumber,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingField):
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, err.Error())
			case errors.Is(err, domain.ErrEmptyCart):
				writeError(w, http.StatusBadRequest, codeEmptyCart, err.Error())
			case errors.Is(err, domain.ErrGateway):
				writeError(w, http.StatusBadGateway, codeGatewayError, "payment gateway unavailable")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(orderResponseFrom(order))
	}
}

type checkoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	PhoneNumber     string `json:"phone_number"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	GatewayOrderID   string              `json:"gateway_order_id"`
	GatewayPaymentID string              `json:"gateway_payment_id,omitempty"`
	PaymentStatus    string              `json:"payment_status"`
	TotalAmount      float64             `json:"total_amount"`
	DeliveryAddress  string              `json:"delivery_address"`
	City             string              `json:"city"`
	State            string              `json:"state"`
	ZipCode          string              `json:"zip_code"`
	PhoneNumber      string              `json:"phone_number"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func orderResponseFrom(order domain.Order) orderResponse {
	resp := orderResponse{
		ID:               order.ID,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
		PaymentStatus:    string(order.PaymentStatus),
		TotalAmount:      order.TotalAmount,
		DeliveryAddress:  order.DeliveryAddress,
		City:             order.City,
		State:            order.State,
		ZipCode:          order.ZipCode,
		PhoneNumber:      order.PhoneNumber,
		Items:            make([]orderItemResponse, 0, len(order.Items)),
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return resp
}
