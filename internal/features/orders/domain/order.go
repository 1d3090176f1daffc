package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// OrderStatusCreated is the initial state assigned by the factory.
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusPending indicates the order is awaiting confirmation.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed indicates the order passed inventory re-validation.
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusPreparing indicates the kitchen is preparing the order.
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusReady indicates the order is ready for delivery or pickup.
	OrderStatusReady OrderStatus = "READY"
	// OrderStatusDelivered indicates the order reached the customer. Terminal.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled indicates the order was cancelled. Terminal.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Transitions is the authoritative adjacency table of legal status changes.
// Every guarded status change consults it; the administrative override path
// is the only way around it.
var Transitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:   {OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range Transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a wire string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := Transitions[status]; !ok {
		return "", fmt.Errorf("unknown order status: %q", s)
	}
	return status, nil
}

// Order is the aggregate root for the order lifecycle. Its mutation methods
// keep the total in sync with the item list and enforce the status guards.
type Order struct {
	// ID is the unique identifier of the order, assigned once at creation.
	ID uuid.UUID `json:"id"`
	// CustomerID references the customer who placed the order.
	CustomerID uuid.UUID `json:"customer_id"`
	// Items is the ordered list of items. Insertion order is preserved for display.
	Items []OrderItem `json:"items"`
	// Status is the current lifecycle state.
	Status OrderStatus `json:"status"`
	// DeliveryAddress is where the order is delivered, if any.
	DeliveryAddress *DeliveryAddress `json:"delivery_address,omitempty"`
	// Total is the current priced breakdown. Always in sync with Items.
	Total OrderTotal `json:"total"`
	// Notes optionally carries order-level notes.
	Notes string `json:"notes,omitempty"`
	// Revision is the optimistic concurrency token, bumped by the repository
	// on every successful update.
	Revision int64 `json:"revision"`
	// CreatedAt is the timestamp when the order was created. Immutable.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is set on every status-changing mutation.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewOrder creates an order with a fresh id in CREATED status, computing
// totals from the supplied items. An empty item list is accepted here;
// rejecting it is the orchestration layer's job.
func NewOrder(customerID uuid.UUID, items []OrderItem, deliveryAddress *DeliveryAddress, notes string) *Order {
	o := &Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Items:           items,
		Status:          OrderStatusCreated,
		DeliveryAddress: deliveryAddress,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
	o.recalculateTotal()
	return o
}

// canModifyItems reports whether item mutation is allowed in the current status.
func (o *Order) canModifyItems() bool {
	return o.Status == OrderStatusCreated || o.Status == OrderStatusPending
}

// AddItem appends an item and recalculates the total atomically with the mutation.
func (o *Order) AddItem(item OrderItem) error {
	if !o.canModifyItems() {
		return fmt.Errorf("%w: cannot add items to an order with status %s", ErrInvalidOrderState, o.Status)
	}

	o.Items = append(o.Items, item)
	o.recalculateTotal()
	return nil
}

// RemoveItem filters out every item matching the id and recalculates the total.
// Removing an id that is not present is a no-op, not an error.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if !o.canModifyItems() {
		return fmt.Errorf("%w: cannot remove items from an order with status %s", ErrInvalidOrderState, o.Status)
	}

	kept := o.Items[:0]
	for _, item := range o.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	o.Items = kept
	o.recalculateTotal()
	return nil
}

// Transition moves the order to the given status after checking the
// transition table, and stamps UpdatedAt.
func (o *Order) Transition(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidOrderState, o.Status, to)
	}

	o.Status = to
	o.touch()
	return nil
}

// SetStatus applies the status unconditionally. This is the administrative
// override path; every regular caller goes through Transition.
func (o *Order) SetStatus(to OrderStatus) {
	o.Status = to
	o.touch()
}

// Cancel moves the order to CANCELLED. Delivered orders cannot be cancelled.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusDelivered {
		return fmt.Errorf("%w: cannot cancel an order that has already been delivered", ErrInvalidOrderState)
	}

	o.Status = OrderStatusCancelled
	o.touch()
	return nil
}

// recalculateTotal recomputes the priced breakdown from the current items.
func (o *Order) recalculateTotal() {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.TotalPrice
	}
	o.Total = NewOrderTotal(subtotal)
}

func (o *Order) touch() {
	now := time.Now()
	o.UpdatedAt = &now
}
