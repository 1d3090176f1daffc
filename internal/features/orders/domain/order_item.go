package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderItem represents an individual item within an order.
type OrderItem struct {
	// ID is the unique identifier of the item row.
	ID uuid.UUID `json:"id"`
	// ProductID references the product in the inventory system.
	ProductID uuid.UUID `json:"product_id"`
	// Name is the product's display name.
	Name string `json:"name"`
	// Quantity is the number of units ordered. Always greater than zero.
	Quantity int `json:"quantity"`
	// UnitPrice is the price of a single unit.
	UnitPrice float64 `json:"unit_price"`
	// TotalPrice is quantity times unit price. The factory computes it;
	// externally supplied values are trusted as an override.
	TotalPrice float64 `json:"total_price"`
	// Notes optionally carries item-level preparation notes.
	Notes string `json:"notes,omitempty"`
	// CreatedAt is the timestamp when the item was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewOrderItem creates an order item with a fresh id, computing the total price.
func NewOrderItem(productID uuid.UUID, name string, quantity int, unitPrice float64, notes string) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidItem)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidItem)
	}

	return &OrderItem{
		ID:         uuid.New(),
		ProductID:  productID,
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: float64(quantity) * unitPrice,
		Notes:      notes,
		CreatedAt:  time.Now(),
	}, nil
}
