// Package store holds the storefront domain model. It is the source side of
// the sample mappings in testdata and the loader tests.
package store

import (
	"time"
)

// Audit carries bookkeeping timestamps embedded in persisted records.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Inventory   int32
	CreatedAt   time.Time
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
	IsActive bool
}

// Order represents a transaction made by a customer.
type Order struct {
	Audit

	ID         int64
	Customer   Customer
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	OrderedAt  time.Time
	Note       *string
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int32
	UnitPrice int64
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus int

const (
	StatusPending OrderStatus = iota
	StatusPaid
	StatusShipped
	StatusCancelled
)

// ParseStatus maps a status name to its value. Unknown names are pending.
func ParseStatus(name string) OrderStatus {
	switch name {
	case "StatusPaid":
		return StatusPaid
	case "StatusShipped":
		return StatusShipped
	case "StatusCancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}
