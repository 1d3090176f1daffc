package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"restaurant-orders/internal/features/orders/domain"
	"restaurant-orders/internal/features/orders/ports"
)

// OrderService orchestrates the order lifecycle: it sequences aggregate
// operations with inventory validation, persistence, and event emission.
// Per use case the operation order is fixed: validate, mutate, persist,
// publish. No event is emitted for a change that failed to persist, and no
// change is persisted without upstream validation passing.
type OrderService struct {
	// repo persists orders.
	repo ports.OrderRepository
	// inventory checks item availability. Advisory only, never a reservation.
	inventory ports.InventoryValidator
	// publisher emits lifecycle events after persistence.
	publisher ports.EventPublisher
}

// NewOrderService creates a new OrderService with the given collaborators.
func NewOrderService(repo ports.OrderRepository, inventory ports.InventoryValidator, publisher ports.EventPublisher) *OrderService {
	return &OrderService{
		repo:      repo,
		inventory: inventory,
		publisher: publisher,
	}
}

// CreateOrder validates availability of all items, creates the order, persists
// it, and publishes an order.created event. Empty item lists are rejected.
// All-or-nothing: a single unavailable item fails the whole request.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, items []domain.OrderItem, deliveryAddress *domain.DeliveryAddress, notes string) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	availability, err := s.inventory.ValidateItemsAvailability(ctx, items)
	if err != nil {
		return nil, err
	}

	if unavailable := unavailableItems(items, availability); len(unavailable) > 0 {
		return nil, &domain.InventoryError{
			Message:     "some items are not available",
			Unavailable: unavailable,
		}
	}

	order := domain.NewOrder(customerID, items, deliveryAddress, notes)

	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	event := NewOrderCreatedEvent(saved)
	if err := s.publisher.PublishEvent(ctx, event.EventType, event, ""); err != nil {
		return nil, fmt.Errorf("failed to publish order created event: %w", err)
	}

	return saved, nil
}

// AddItemToOrder validates the new item's availability and appends it to the
// order. Item-level changes emit no events.
func (s *OrderService) AddItemToOrder(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusCreated && order.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("%w: cannot add items to an order with status %s", domain.ErrInvalidOrderState, order.Status)
	}

	availability, err := s.inventory.ValidateItemsAvailability(ctx, []domain.OrderItem{item})
	if err != nil {
		return nil, err
	}
	if !availability[item.ProductID] {
		return nil, &domain.InventoryError{
			Message:     fmt.Sprintf("item %s is not available", item.Name),
			Unavailable: []string{item.ProductID.String()},
		}
	}

	if err := order.AddItem(item); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return updated, nil
}

// RemoveItemFromOrder removes every item matching the id from the order.
// Removal never needs an inventory check and emits no events.
func (s *OrderService) RemoveItemFromOrder(ctx context.Context, orderID, itemID uuid.UUID) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusCreated && order.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("%w: cannot remove items from an order with status %s", domain.ErrInvalidOrderState, order.Status)
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return updated, nil
}

// UpdateOrderStatus applies a status change gated by the transition table,
// persists it, and publishes an order.status_updated event.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.Transition(status); err != nil {
		return nil, err
	}

	return s.persistAndPublishStatus(ctx, order, previous)
}

// OverrideOrderStatus applies any status unconditionally, bypassing the
// transition table. This is the administrative correction path; regular
// callers use UpdateOrderStatus.
func (s *OrderService) OverrideOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.SetStatus(status)

	return s.persistAndPublishStatus(ctx, order, previous)
}

// CancelOrder cancels the order and publishes an order.cancelled event.
// The terminal-state guard lives in the aggregate.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	event := NewOrderCancelledEvent(updated, reason)
	if err := s.publisher.PublishEvent(ctx, event.EventType, event, ""); err != nil {
		return nil, fmt.Errorf("failed to publish order cancelled event: %w", err)
	}

	return updated, nil
}

// ConfirmOrder re-validates availability of all current items, sets the order
// to CONFIRMED, persists, and publishes order.status_updated followed by
// order.confirmed.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	availability, err := s.inventory.ValidateItemsAvailability(ctx, order.Items)
	if err != nil {
		return nil, err
	}
	if unavailable := unavailableItems(order.Items, availability); len(unavailable) > 0 {
		return nil, &domain.InventoryError{
			Message:     "some items are not available",
			Unavailable: unavailable,
		}
	}

	previous := order.Status
	if err := order.Transition(domain.OrderStatusConfirmed); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	statusEvent := NewOrderStatusUpdatedEvent(updated, previous)
	if err := s.publisher.PublishEvent(ctx, statusEvent.EventType, statusEvent, ""); err != nil {
		return nil, fmt.Errorf("failed to publish status updated event: %w", err)
	}

	confirmedEvent := NewOrderConfirmedEvent(updated)
	if err := s.publisher.PublishEvent(ctx, confirmedEvent.EventType, confirmedEvent, ""); err != nil {
		return nil, fmt.Errorf("failed to publish order confirmed event: %w", err)
	}

	return updated, nil
}

// findOrder loads an order or reports not-found.
func (s *OrderService) findOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return order, nil
}

// persistAndPublishStatus updates the order and emits the status event.
func (s *OrderService) persistAndPublishStatus(ctx context.Context, order *domain.Order, previous domain.OrderStatus) (*domain.Order, error) {
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	event := NewOrderStatusUpdatedEvent(updated, previous)
	if err := s.publisher.PublishEvent(ctx, event.EventType, event, ""); err != nil {
		return nil, fmt.Errorf("failed to publish status updated event: %w", err)
	}

	return updated, nil
}

// unavailableItems collects the product ids the availability map marks as
// unavailable. Items with no entry at all count as unavailable.
func unavailableItems(items []domain.OrderItem, availability map[uuid.UUID]bool) []string {
	var unavailable []string
	seen := make(map[uuid.UUID]bool)
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if !availability[item.ProductID] {
			unavailable = append(unavailable, item.ProductID.String())
		}
	}
	return unavailable
}
