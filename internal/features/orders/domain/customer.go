package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a customer placing orders.
type Customer struct {
	// ID is the unique identifier of the customer.
	ID uuid.UUID `json:"id"`
	// Name is the customer's display name.
	Name string `json:"name"`
	// Email is the contact email of the customer.
	Email string `json:"email"`
	// Phone is the contact phone number of the customer.
	Phone string `json:"phone"`
	// CreatedAt is the timestamp when the customer was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp of the last modification, if any.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewCustomer creates a customer with a fresh id and the current timestamp.
func NewCustomer(name, email, phone string) *Customer {
	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
}
