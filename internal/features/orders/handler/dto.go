package handler

import (
	"fmt"

	"github.com/google/uuid"

	"restaurant-orders/internal/features/orders/domain"
)

// CreateOrderRequest is the wire shape for placing a new order.
type CreateOrderRequest struct {
	// CustomerID identifies the customer placing the order.
	CustomerID string `json:"customer_id"`
	// Items is the initial item list. Must not be empty.
	Items []OrderItemRequest `json:"items"`
	// DeliveryAddress is optional for pickup orders.
	DeliveryAddress *DeliveryAddressRequest `json:"delivery_address,omitempty"`
	// Notes optionally carries order-level notes.
	Notes string `json:"notes,omitempty"`
}

// OrderItemRequest is the wire shape of a single item.
type OrderItemRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes,omitempty"`
}

// DeliveryAddressRequest is the wire shape of a delivery address.
type DeliveryAddressRequest struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Apartment    string `json:"apartment,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// UpdateStatusRequest carries the target status for a transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelOrderRequest optionally carries a cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// toDomainItem converts a request item into a validated domain item.
func (r OrderItemRequest) toDomainItem() (*domain.OrderItem, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id %q: %w", r.ProductID, err)
	}
	return domain.NewOrderItem(productID, r.Name, r.Quantity, r.UnitPrice, r.Notes)
}

// toDomainAddress converts an optional request address.
func (r *DeliveryAddressRequest) toDomainAddress() *domain.DeliveryAddress {
	if r == nil {
		return nil
	}
	return &domain.DeliveryAddress{
		Street:       r.Street,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Apartment:    r.Apartment,
		Instructions: r.Instructions,
	}
}
