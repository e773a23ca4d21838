package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// OrderQuerier is the minimal interface needed for the order read endpoints.
type OrderQuerier interface {
	ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID, requesterID string) (domain.Order, error)
}

// HandleOrders returns an HTTP handler serving GET /orders and
// GET /orders/{id} for the authenticated buyer.
func HandleOrders(svc OrderQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		buyerID := requesterID(r)
		if buyerID == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing buyer identity")
			return
		}

		orderID, single, ok := parseOrdersPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if !single {
			orders, err := svc.ListBuyerOrders(r.Context(), buyerID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]orderResponse, 0, len(orders))
			for _, order := range orders {
				resp = append(resp, orderResponseFrom(order))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, buyerID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrUnauthorized):
				writeError(w, http.StatusForbidden, codeUnauthorized, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orderResponseFrom(order))
	}
}

func parseOrdersPath(path string) (orderID string, single, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] != "orders" {
		return "", false, false
	}
	switch len(parts) {
	case 1:
		return "", false, true
	case 2:
		if parts[1] == "" {
			return "", false, false
		}
		return parts[1], true, true
	default:
		return "", false, false
	}
}
