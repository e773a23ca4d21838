package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ranju12345252/ecommerce-final/internal/app"
	"github.com/ranju12345252/ecommerce-final/internal/domain"
	"github.com/ranju12345252/ecommerce-final/internal/storage/postgres"
	"github.com/ranju12345252/ecommerce-final/internal/testutil"
)

const integrationKeySecret = "key_secret_test"

func clientSignature(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(integrationKeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPayment_HTTPIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	orderRepo := postgres.NewOrderRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	svc := app.NewReconcileService(orderRepo, inventoryRepo, cartRepo, integrationKeySecret)

	productID := testutil.InsertProduct(t, ctx, pool, "Widget", 10.00, 5)
	testutil.InsertCart(t, ctx, pool, "buyer-1", map[string]int{productID: 2})

	orderID := uuid.NewString()
	testutil.InsertOrder(t, ctx, pool, domain.Order{
		ID:              orderID,
		BuyerID:         "buyer-1",
		DeliveryAddress: "1 Main St",
		City:            "Pune",
		State:           "MH",
		ZipCode:         "411001",
		PhoneNumber:     "9999999999",
		TotalAmount:     20.00,
		PaymentStatus:   domain.PaymentStatusCreated,
		GatewayOrderID:  "order_gw_int_1",
		Items: []domain.OrderItem{
			{ProductID: productID, ProductName: "Widget", Quantity: 2, UnitPrice: 10.00},
		},
		CreatedAt: time.Now().UTC(),
	})

	handler := HandleVerifyPayment(svc)
	body := fmt.Sprintf(`{"order_id":"order_gw_int_1","payment_id":"pay_int_1","signature":"%s"}`,
		clientSignature("order_gw_int_1", "pay_int_1"))

	req := httptest.NewRequest(http.MethodPost, "/checkout/verify", strings.NewReader(body))
	req.Header.Set(buyerIDHeader, "buyer-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var first orderResponse
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if first.PaymentStatus != string(domain.PaymentStatusPaid) {
		t.Fatalf("expected paid order, got %s", first.PaymentStatus)
	}
	if first.GatewayPaymentID != "pay_int_1" {
		t.Fatalf("expected gateway payment id pay_int_1, got %s", first.GatewayPaymentID)
	}

	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 3 {
		t.Fatalf("expected stock 3 after decrement, got %d", stock)
	}

	var cartItems int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM cart_items ci JOIN carts c ON ci.cart_id = c.id WHERE c.buyer_id = $1`,
		"buyer-1",
	).Scan(&cartItems); err != nil {
		t.Fatalf("query cart items: %v", err)
	}
	if cartItems != 0 {
		t.Fatalf("expected cart cleared after payment, got %d items", cartItems)
	}

	// Replay of the same confirmation observes the paid order and does not
	// touch stock again.
	req2 := httptest.NewRequest(http.MethodPost, "/checkout/verify", strings.NewReader(body))
	req2.Header.Set(buyerIDHeader, "buyer-1")
	rec2 := httptest.NewRecorder()

	handler.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on replay, got %d", rec2.Code)
	}
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 3 {
		t.Fatalf("expected stock unchanged on replay, got %d", stock)
	}
}

func TestWebhook_HTTPIntegration_FailedPaymentDeletesOrder(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	orderRepo := postgres.NewOrderRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	svc := app.NewReconcileService(orderRepo, inventoryRepo, cartRepo, integrationKeySecret)

	productID := testutil.InsertProduct(t, ctx, pool, "Widget", 10.00, 5)
	orderID := uuid.NewString()
	testutil.InsertOrder(t, ctx, pool, domain.Order{
		ID:              orderID,
		BuyerID:         "buyer-1",
		DeliveryAddress: "1 Main St",
		City:            "Pune",
		State:           "MH",
		ZipCode:         "411001",
		PhoneNumber:     "9999999999",
		TotalAmount:     10.00,
		PaymentStatus:   domain.PaymentStatusCreated,
		GatewayOrderID:  "order_gw_int_2",
		Items: []domain.OrderItem{
			{ProductID: productID, ProductName: "Widget", Quantity: 1, UnitPrice: 10.00},
		},
		CreatedAt: time.Now().UTC(),
	})

	const secret = "whsec_int"
	payload := `{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_int_2","order_id":"order_gw_int_2"}}}}`
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	sig := hex.EncodeToString(mac.Sum(nil))

	handler := HandleRazorpayWebhook(secret, svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", strings.NewReader(payload))
	req.Header.Set(webhookSignatureHeader, sig)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE id = $1`, orderID).Scan(&count); err != nil {
		t.Fatalf("query orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected failed order deleted, found %d rows", count)
	}

	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 5 {
		t.Fatalf("expected stock untouched, got %d", stock)
	}
}
