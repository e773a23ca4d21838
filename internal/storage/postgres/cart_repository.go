package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

// CartRepository reads and clears buyer carts. Cart mutation (add/remove
// items) is owned by the catalog side of the system, not this service.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Snapshot returns a consistent view of the buyer's cart: line quantities
// joined with current catalog prices, read in one transaction.
func (r *CartRepository) Snapshot(ctx context.Context, buyerID string) (domain.CartSnapshot, error) {
	snapshot := domain.CartSnapshot{BuyerID: buyerID}

	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		var cartID string
		err := r.queryRow(txCtx, `SELECT id FROM carts WHERE buyer_id = $1`, buyerID).Scan(&cartID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrCartNotFound
			}
			return fmt.Errorf("find cart: %w", err)
		}

		const query = `
SELECT ci.product_id, p.name, ci.quantity, p.price
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.position`

		rows, err := r.query(txCtx, query, cartID)
		if err != nil {
			return fmt.Errorf("read cart items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item domain.CartItem
			if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
				return fmt.Errorf("scan cart item: %w", err)
			}
			snapshot.Items = append(snapshot.Items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return snapshot, nil
}

// Clear empties the buyer's cart. The cart row itself stays.
func (r *CartRepository) Clear(ctx context.Context, buyerID string) error {
	const stmt = `
DELETE FROM cart_items
WHERE cart_id IN (SELECT id FROM carts WHERE buyer_id = $1)`

	if _, err := r.exec(ctx, stmt, buyerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *CartRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CartRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *CartRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
