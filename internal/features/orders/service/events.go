package service

import (
	"time"

	"github.com/google/uuid"

	"restaurant-orders/internal/features/orders/domain"
)

// Event type strings carried on the wire.
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderConfirmed     = "order.confirmed"
	EventTypeOrderCancelled     = "order.cancelled"
	EventTypeOrderStatusUpdated = "order.status_updated"
)

// eventSchemaVersion is the fixed schema version stamped on every event.
const eventSchemaVersion = "1.0"

// EventMeta is the envelope shared by every order lifecycle event.
type EventMeta struct {
	// EventID is a fresh unique id per emission.
	EventID uuid.UUID `json:"event_id"`
	// EventType is the dotted event type string.
	EventType string `json:"event_type"`
	// Timestamp is when the event was built.
	Timestamp time.Time `json:"timestamp"`
	// Version is the event schema version.
	Version string `json:"version"`
}

func newEventMeta(eventType string) EventMeta {
	return EventMeta{
		EventID:   uuid.New(),
		EventType: eventType,
		Timestamp: time.Now(),
		Version:   eventSchemaVersion,
	}
}

// EventItem is the item snapshot embedded in OrderCreatedEvent.
type EventItem struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

// OrderCreatedEvent is emitted after a new order is persisted.
type OrderCreatedEvent struct {
	EventMeta
	OrderID     uuid.UUID   `json:"order_id"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	Items       []EventItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
}

// NewOrderCreatedEvent builds the event from a persisted order snapshot.
func NewOrderCreatedEvent(order *domain.Order) OrderCreatedEvent {
	items := make([]EventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, EventItem{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	return OrderCreatedEvent{
		EventMeta:   newEventMeta(EventTypeOrderCreated),
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Items:       items,
		TotalAmount: order.Total.Total,
		Status:      string(order.Status),
	}
}

// OrderConfirmedEvent is emitted after an order is confirmed.
type OrderConfirmedEvent struct {
	EventMeta
	OrderID     uuid.UUID `json:"order_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	TotalAmount float64   `json:"total_amount"`
}

// NewOrderConfirmedEvent builds the event from a confirmed order.
func NewOrderConfirmedEvent(order *domain.Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		EventMeta:   newEventMeta(EventTypeOrderConfirmed),
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.Total.Total,
	}
}

// OrderCancelledEvent is emitted after an order is cancelled.
type OrderCancelledEvent struct {
	EventMeta
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason,omitempty"`
}

// NewOrderCancelledEvent builds the event from a cancelled order.
func NewOrderCancelledEvent(order *domain.Order, reason string) OrderCancelledEvent {
	return OrderCancelledEvent{
		EventMeta:  newEventMeta(EventTypeOrderCancelled),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Reason:     reason,
	}
}

// OrderStatusUpdatedEvent is emitted after any status change.
type OrderStatusUpdatedEvent struct {
	EventMeta
	OrderID        uuid.UUID `json:"order_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
}

// NewOrderStatusUpdatedEvent builds the event carrying both status values.
func NewOrderStatusUpdatedEvent(order *domain.Order, previous domain.OrderStatus) OrderStatusUpdatedEvent {
	return OrderStatusUpdatedEvent{
		EventMeta:      newEventMeta(EventTypeOrderStatusUpdated),
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		PreviousStatus: string(previous),
		NewStatus:      string(order.Status),
	}
}
