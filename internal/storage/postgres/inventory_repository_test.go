package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
	"github.com/ranju12345252/ecommerce-final/internal/testutil"
)

func TestInventoryRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewInventoryRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("TryDecrement reduces stock", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Watch A", 10.00, 5)

		newStock, err := repo.TryDecrement(ctx, productID, 2)
		if err != nil {
			t.Fatalf("decrement: %v", err)
		}
		if newStock != 3 {
			t.Fatalf("expected stock 3, got %d", newStock)
		}
	})

	t.Run("TryDecrement never goes below zero", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Watch A", 10.00, 1)

		_, err := repo.TryDecrement(ctx, productID, 2)
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		product, err := repo.GetProduct(ctx, productID)
		if err != nil {
			t.Fatalf("get product: %v", err)
		}
		if product.Stock != 1 {
			t.Fatalf("expected stock unchanged at 1, got %d", product.Stock)
		}
	})

	t.Run("TryDecrement on missing product", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.TryDecrement(ctx, "00000000-0000-0000-0000-000000000001", 1)
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("failed transaction rolls back earlier decrements", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productA := testutil.InsertProduct(t, ctx, pool, "Watch A", 10.00, 5)
		productB := testutil.InsertProduct(t, ctx, pool, "Watch B", 5.00, 0)

		orderRepo := NewOrderRepository(pool)
		err := orderRepo.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := repo.TryDecrement(txCtx, productA, 2); err != nil {
				return err
			}
			_, err := repo.TryDecrement(txCtx, productB, 1)
			return err
		})
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}

		product, err := repo.GetProduct(ctx, productA)
		if err != nil {
			t.Fatalf("get product: %v", err)
		}
		if product.Stock != 5 {
			t.Fatalf("expected partial decrement rolled back, got %d", product.Stock)
		}
	})

	t.Run("Restore adds stock back", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, "Watch A", 10.00, 2)

		if err := repo.Restore(ctx, productID, 3); err != nil {
			t.Fatalf("restore: %v", err)
		}
		product, err := repo.GetProduct(ctx, productID)
		if err != nil {
			t.Fatalf("get product: %v", err)
		}
		if product.Stock != 5 {
			t.Fatalf("expected stock 5, got %d", product.Stock)
		}
		if product.Name != "Watch A" || product.Price != 10.00 {
			t.Fatalf("unexpected product row: %+v", product)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		ctx := context.Background()
		if _, err := repo.TryDecrement(ctx, "not-a-uuid", 1); !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}
