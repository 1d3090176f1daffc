package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restaurant-orders/internal/features/orders/domain"
)

// OrderRepository defines the persistence operations the order core depends on.
// This is a Secondary Port (Driven Port).
type OrderRepository interface {
	// Save persists a new order and returns it.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// FindByID returns the order with the given id, or nil when absent.
	FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// FindByCustomerID returns all orders for a customer, most recent first.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)

	// FindByStatus returns all orders with the given status.
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)

	// FindByDateRange returns all orders created within [start, end],
	// optionally filtered by status.
	FindByDateRange(ctx context.Context, start, end time.Time, status *domain.OrderStatus) ([]*domain.Order, error)

	// Update persists changes to an existing order, comparing-and-setting the
	// revision token. Returns domain.ErrOrderNotFound for unknown ids and
	// domain.ErrOrderConflict when a concurrent mutation won.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// Delete removes an order. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, orderID uuid.UUID) error
}

// InventoryValidator checks item availability against the inventory collaborator.
// This is a Secondary Port (Driven Port).
type InventoryValidator interface {
	// ValidateItemsAvailability returns a product-id-to-availability mapping
	// with an entry for every submitted item. Callers treat absent entries
	// as unavailable.
	ValidateItemsAvailability(ctx context.Context, items []domain.OrderItem) (map[uuid.UUID]bool, error)
}

// EventPublisher emits order lifecycle events to the message broker.
// This is a Secondary Port (Driven Port).
type EventPublisher interface {
	// PublishEvent publishes a single event. An empty topic selects the
	// publisher's default topic. Fire-and-forget from the core's perspective;
	// failures propagate to the caller, there is no background retry.
	PublishEvent(ctx context.Context, eventType string, payload any, topic string) error
}
