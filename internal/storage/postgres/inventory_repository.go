package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// InventoryRepository is the authoritative stock ledger. Decrements are
// guarded in SQL so a stock count can never go negative.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// TryDecrement subtracts quantity from the product's stock and returns the
// new count. It fails with ErrInsufficientStock when the product exists but
// holds less than quantity. Run inside a transaction, a failed multi-item
// decrement rolls back as a unit.
func (r *InventoryRepository) TryDecrement(ctx context.Context, productID string, quantity int) (int, error) {
	const stmt = `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
RETURNING stock`

	var newStock int
	err := r.queryRow(ctx, stmt, productID, quantity).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if isInvalidUUID(err) {
		return 0, domain.ErrInvalidID
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	// No row updated: either the product is missing or stock is short.
	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return 0, domain.ErrProductNotFound
	}
	return 0, domain.ErrInsufficientStock
}

// Restore adds quantity back to the product's stock. Compensating operation
// for callers that decrement outside a transaction.
func (r *InventoryRepository) Restore(ctx context.Context, productID string, quantity int) error {
	const stmt = `UPDATE products SET stock = stock + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("restore stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetProduct reads one catalog row, stock included.
func (r *InventoryRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	const query = `SELECT id, name, price, stock FROM products WHERE id = $1`

	var product domain.Product
	if err := r.queryRow(ctx, query, productID).Scan(&product.ID, &product.Name, &product.Price, &product.Stock); err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
