package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"restaurant-orders/internal/features/orders/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    status TEXT NOT NULL,
    delivery_address TEXT,
    subtotal REAL NOT NULL,
    tax REAL NOT NULL,
    total REAL NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    revision INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    unit_price REAL NOT NULL,
    total_price REAL NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// SQLiteOrderRepository implements ports.OrderRepository on SQLite.
// Update performs an optimistic compare-and-set on the revision column.
type SQLiteOrderRepository struct {
	db *sql.DB
}

// NewSQLiteOrderRepository opens the database, applies the schema, and
// returns a ready repository.
func NewSQLiteOrderRepository(dbPath string) (*SQLiteOrderRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL improves read concurrency; SQLite still wants a single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteOrderRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteOrderRepository) Close() error {
	return r.db.Close()
}

// Save persists a new order and its items in one transaction.
func (r *SQLiteOrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	addressJSON, err := marshalAddress(order.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, status, delivery_address, subtotal, tax, total, notes, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID.String(), order.CustomerID.String(), string(order.Status), addressJSON,
		order.Total.Subtotal, order.Total.Tax, order.Total.Total, order.Notes,
		order.Revision, order.CreatedAt, nullableTime(order.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertItems(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return order, nil
}

// FindByID returns the order with the given id, or nil when absent.
func (r *SQLiteOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, status, delivery_address, subtotal, tax, total, notes, revision, created_at, updated_at
		FROM orders WHERE id = ?`, orderID.String())

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// FindByCustomerID returns all orders for a customer, most recent first.
func (r *SQLiteOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return r.findMany(ctx, `
		SELECT id, customer_id, status, delivery_address, subtotal, tax, total, notes, revision, created_at, updated_at
		FROM orders WHERE customer_id = ? ORDER BY created_at DESC`, customerID.String())
}

// FindByStatus returns all orders with the given status, most recent first.
func (r *SQLiteOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.findMany(ctx, `
		SELECT id, customer_id, status, delivery_address, subtotal, tax, total, notes, revision, created_at, updated_at
		FROM orders WHERE status = ? ORDER BY created_at DESC`, string(status))
}

// FindByDateRange returns all orders created within the inclusive range,
// optionally filtered by status.
func (r *SQLiteOrderRepository) FindByDateRange(ctx context.Context, start, end time.Time, status *domain.OrderStatus) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_id, status, delivery_address, subtotal, tax, total, notes, revision, created_at, updated_at
		FROM orders WHERE created_at >= ? AND created_at <= ?`
	args := []any{start, end}

	if status != nil {
		query += " AND status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	return r.findMany(ctx, query, args...)
}

// Update persists changes to an existing order, comparing-and-setting the
// revision. Items are replaced wholesale inside the same transaction.
func (r *SQLiteOrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	addressJSON, err := marshalAddress(order.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, delivery_address = ?, subtotal = ?, tax = ?, total = ?, notes = ?, revision = revision + 1, updated_at = ?
		WHERE id = ? AND revision = ?`,
		string(order.Status), addressJSON,
		order.Total.Subtotal, order.Total.Tax, order.Total.Total, order.Notes,
		nullableTime(order.UpdatedAt),
		order.ID.String(), order.Revision,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders WHERE id = ?`, order.ID.String()).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check order existence: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, order.ID)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderConflict, order.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID.String()); err != nil {
		return nil, fmt.Errorf("failed to clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	order.Revision++
	return order, nil
}

// Delete removes an order and its items. Unknown ids are a no-op.
func (r *SQLiteOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID.String()); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// findMany runs an order query and loads items for every result.
func (r *SQLiteOrderRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// loadItems populates the order's item list in insertion order.
func (r *SQLiteOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, quantity, unit_price, total_price, notes, created_at
		FROM order_items WHERE order_id = ? ORDER BY position`, order.ID.String())
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var id, productID string
		if err := rows.Scan(&id, &productID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Notes, &item.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("corrupt item id %q: %w", id, err)
		}
		if item.ProductID, err = uuid.Parse(productID); err != nil {
			return fmt.Errorf("corrupt product id %q: %w", productID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate order items: %w", err)
	}

	order.Items = items
	return nil
}

// insertItems writes the order's items with their list positions.
func insertItems(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	for i, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price, total_price, notes, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID.String(), order.ID.String(), item.ProductID.String(), item.Name,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.Notes, i, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder reads one order row without its items.
func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var id, customerID, status string
	var addressJSON sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&id, &customerID, &status, &addressJSON,
		&order.Total.Subtotal, &order.Total.Tax, &order.Total.Total,
		&order.Notes, &order.Revision, &order.CreatedAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if order.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt order id %q: %w", id, err)
	}
	if order.CustomerID, err = uuid.Parse(customerID); err != nil {
		return nil, fmt.Errorf("corrupt customer id %q: %w", customerID, err)
	}
	order.Status = domain.OrderStatus(status)

	if addressJSON.Valid && addressJSON.String != "" {
		var addr domain.DeliveryAddress
		if err := json.Unmarshal([]byte(addressJSON.String), &addr); err != nil {
			return nil, fmt.Errorf("corrupt delivery address: %w", err)
		}
		order.DeliveryAddress = &addr
	}
	if updatedAt.Valid {
		order.UpdatedAt = &updatedAt.Time
	}
	return &order, nil
}

// marshalAddress serializes the delivery address, keeping NULL for absent ones.
func marshalAddress(addr *domain.DeliveryAddress) (any, error) {
	if addr == nil {
		return nil, nil
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal delivery address: %w", err)
	}
	return string(data), nil
}

// nullableTime converts an optional timestamp for binding.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
