package store

import (
	"context"
	"fmt"

	"github.com/alextreichler/grocerycart/internal/models"
)

// InsufficientStockError aborts an order when a line's quantity exceeds the
// product's remaining stock at commit time.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.ProductName)
}

// CreateOrder persists the order row, its line items and the matching stock
// decrements as a single transaction. The decrement is conditional
// (stock >= qty), so a quantity that can no longer be satisfied rolls the
// whole order back instead of overselling.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, total) VALUES (?, ?)`,
		order.CustomerName, order.Total)
	if err != nil {
		return 0, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, qty, price) VALUES (?, ?, ?, ?)`,
			orderID, it.ProductID, it.Qty, it.Price); err != nil {
			return 0, err
		}

		dec, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			it.Qty, it.ProductID, it.Qty)
		if err != nil {
			return 0, err
		}
		n, err := dec.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, &InsufficientStockError{ProductName: it.ProductName}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	order.ID = int(orderID)
	return orderID, nil
}

// ListOrdersWithItems returns order history, newest first, each order carrying
// its line items with the product name joined in. Item prices are the captured
// purchase-time prices from order_items, never the live product price.
func (s *Store) ListOrdersWithItems(ctx context.Context) ([]models.OrderWithItems, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, COALESCE(customer_name, '') as customer_name, total, created_at
		 FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.OrderWithItems
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, models.OrderWithItems{Order: o})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.getOrderItems(ctx, orders[i].Order.ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) getOrderItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.qty, oi.price, p.name
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 WHERE oi.order_id = ?
		 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.Price, &it.ProductName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
