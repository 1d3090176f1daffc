package domain

import "fmt"

// TaxRate is the flat tax rate applied to every order subtotal.
const TaxRate = 0.10

// OrderTotal is an immutable value object holding the priced breakdown of an order.
type OrderTotal struct {
	// Subtotal is the sum of all item total prices.
	Subtotal float64 `json:"subtotal"`
	// Tax is the flat-rate tax applied to the subtotal.
	Tax float64 `json:"tax"`
	// Total is the subtotal plus tax.
	Total float64 `json:"total"`
}

// NewOrderTotal builds an OrderTotal from a subtotal, applying the flat tax rate.
func NewOrderTotal(subtotal float64) OrderTotal {
	tax := subtotal * TaxRate
	return OrderTotal{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// String renders the total as a formatted currency summary.
func (t OrderTotal) String() string {
	return fmt.Sprintf("Total: $%.2f (Subtotal: $%.2f + Tax: $%.2f)", t.Total, t.Subtotal, t.Tax)
}
