package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchStock(ctx context.Context, productIDs []string) (map[string]domain.StockInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, stock
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stock := make(map[string]domain.StockInfo, len(productIDs))
	for rows.Next() {
		var id string
		var info domain.StockInfo
		if err := rows.Scan(&id, &info.Name, &info.Stock); err != nil {
			return nil, err
		}
		stock[id] = info
	}

	return stock, rows.Err()
}

// CreateOrder is the reserve+identify+persist phase, all inside one
// transaction so a failure at any step leaves stock untouched. Product rows
// are locked in a stable order to keep concurrent carts from deadlocking.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order, prefix string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ids := distinctProductIDs(order.Items)
	if _, err := tx.ExecContext(ctx, `
		SELECT id FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE
	`, pq.Array(ids)); err != nil {
		return fmt.Errorf("lock products: %w", err)
	}

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $2
			WHERE id = $1 AND stock >= $2
		`, item.ProductID, item.Qty)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrStockConflict, item.Name)
		}
	}

	// Day-scoped sequence, one row per prefix+calendar day. The upsert makes
	// the counter read atomic with the insert, so concurrently created orders
	// can never observe the same ordinal.
	day := order.Date.Local()
	var seq int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_counters (prefix, day, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, prefix, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next order sequence: %w", err)
	}
	order.ID = FormatOrderID(prefix, day, seq)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total, status, payment_mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, order.ID, order.UserID, order.Total, order.Status, order.PaymentMode, order.Date); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, qty, price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), order.ID, item.ProductID, item.Name, item.Qty, item.Price); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, status, payment_mode, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.PaymentMode, &order.Date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, qty, price
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Qty, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE
	`, id).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, ErrOrderNotFound
		}
		return nil, false, err
	}

	changed := current != status
	if changed {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
		`, status, id); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, total, status, payment_mode, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, total, status, payment_mode, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.PaymentMode, &order.Date); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, qty, price
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Qty, &item.Price); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}
