package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrCustomerNotFound is returned when the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidOrderState is returned when an operation is not allowed in the order's current status.
	ErrInvalidOrderState = errors.New("invalid order state")
	// ErrEmptyOrder is returned when an order is created without items.
	ErrEmptyOrder = errors.New("cannot create an order without items")
	// ErrItemsUnavailable is returned when the inventory collaborator reports items as unavailable.
	ErrItemsUnavailable = errors.New("items unavailable")
	// ErrOrderConflict is returned when a concurrent mutation bumped the order's revision first.
	ErrOrderConflict = errors.New("order was modified concurrently")
	// ErrInvalidItem is returned when an order item fails structural validation.
	ErrInvalidItem = errors.New("invalid order item")
)

// InventoryError reports an inventory validation failure. It either lists the
// product identifiers the inventory collaborator declared unavailable, or
// wraps the upstream error when the collaborator itself failed.
type InventoryError struct {
	// Message is the human-readable failure description.
	Message string
	// Unavailable contains the product identifiers that cannot be fulfilled.
	Unavailable []string
	// Cause is the upstream error, when the collaborator errored or timed out.
	Cause error
}

// Error implements the error interface.
func (e *InventoryError) Error() string {
	if len(e.Unavailable) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Unavailable, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap makes the error match ErrItemsUnavailable with errors.Is.
func (e *InventoryError) Unwrap() error {
	return ErrItemsUnavailable
}
