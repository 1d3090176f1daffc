package domain

import "fmt"

// DeliveryAddress is an immutable value object describing where an order is delivered.
// Equality is by value.
type DeliveryAddress struct {
	// Street is the street line of the address.
	Street string `json:"street"`
	// City is the city of the address.
	City string `json:"city"`
	// State is the state or province of the address.
	State string `json:"state"`
	// PostalCode is the postal or ZIP code.
	PostalCode string `json:"postal_code"`
	// Country is the country of the address.
	Country string `json:"country"`
	// Apartment optionally identifies an apartment or suite.
	Apartment string `json:"apartment,omitempty"`
	// Instructions optionally carries delivery instructions.
	Instructions string `json:"instructions,omitempty"`
}

// String renders the address as a single human-readable line,
// appending apartment information when present.
func (a DeliveryAddress) String() string {
	base := fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.PostalCode, a.Country)
	if a.Apartment != "" {
		base = fmt.Sprintf("%s, Apt/Suite: %s", base, a.Apartment)
	}
	return base
}
