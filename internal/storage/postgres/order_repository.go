package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Create persists the order and its item snapshots atomically.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		const orderStmt = `
INSERT INTO orders (id, buyer_id, delivery_address, city, state, zip_code, phone_number,
	total_amount, payment_status, gateway_order_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

		_, err := r.exec(txCtx, orderStmt,
			order.ID,
			order.BuyerID,
			order.DeliveryAddress,
			order.City,
			order.State,
			order.ZipCode,
			order.PhoneNumber,
			order.TotalAmount,
			order.PaymentStatus,
			order.GatewayOrderID,
			order.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("create order: duplicate gateway order id: %w", err)
			}
			return fmt.Errorf("create order: %w", err)
		}

		const itemStmt = `
INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, position)
VALUES ($1, $2, $3, $4, $5, $6)`

		for i, item := range order.Items {
			if _, err := r.exec(txCtx, itemStmt,
				order.ID,
				item.ProductID,
				item.ProductName,
				item.Quantity,
				item.UnitPrice,
				i,
			); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		return nil
	})
}

// GetByGatewayOrderIDForUpdate locks the order row for the duration of the
// surrounding transaction. This is the per-order mutual-exclusion boundary:
// concurrent reconciles for the same gateway order id serialize here.
func (r *OrderRepository) GetByGatewayOrderIDForUpdate(ctx context.Context, gatewayOrderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer_id, delivery_address, city, state, zip_code, phone_number,
	total_amount, payment_status, gateway_order_id, COALESCE(gateway_payment_id, ''), created_at
FROM orders
WHERE gateway_order_id = $1
FOR UPDATE`

	order, err := r.scanOrder(r.queryRow(ctx, query, gatewayOrderID))
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

// GetWithItems returns one order by its internal id.
func (r *OrderRepository) GetWithItems(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer_id, delivery_address, city, state, zip_code, phone_number,
	total_amount, payment_status, gateway_order_id, COALESCE(gateway_payment_id, ''), created_at
FROM orders
WHERE id = $1`

	order, err := r.scanOrder(r.queryRow(ctx, query, orderID))
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

// ListPaidByBuyer returns the buyer's paid orders, newest first, with items.
func (r *OrderRepository) ListPaidByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	const query = `
SELECT id, buyer_id, delivery_address, city, state, zip_code, phone_number,
	total_amount, payment_status, gateway_order_id, COALESCE(gateway_payment_id, ''), created_at
FROM orders
WHERE buyer_id = $1 AND payment_status = 'paid'
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// MarkPaid transitions the order to paid and attaches the gateway payment
// id. The payment id is assigned exactly once.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID, gatewayPaymentID string) error {
	const stmt = `
UPDATE orders
SET payment_status = 'paid', gateway_payment_id = $2
WHERE id = $1 AND payment_status = 'created'`

	tag, err := r.exec(ctx, stmt, orderID, gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete removes the order and, via cascade, its items. Deletion is the
// terminal representation of a failed payment.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	const stmt = `DELETE FROM orders WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
SELECT product_id, product_name, quantity, unit_price
FROM order_items
WHERE order_id = $1
ORDER BY position`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return items, nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.DeliveryAddress,
		&o.City,
		&o.State,
		&o.ZipCode,
		&o.PhoneNumber,
		&o.TotalAmount,
		&status,
		&o.GatewayOrderID,
		&o.GatewayPaymentID,
		&o.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.PaymentStatus = domain.PaymentStatus(status)
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
