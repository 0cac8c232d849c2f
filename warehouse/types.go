// Package warehouse holds the fulfilment domain model, the target side of
// the sample mappings.
package warehouse

// Customer is the shipping contact of an order.
type Customer struct {
	ID       int64 `mapgen:"readonly"`
	Email    string
	FullName string
	Address  string
}

// NewCustomer creates a customer with its immutable identity.
func NewCustomer(id int64, email string) Customer {
	return Customer{ID: id, Email: email}
}

// Order is a fulfilment order.
type Order struct {
	ID         int64 `mapgen:"readonly"`
	Customer   Customer
	Status     string
	TotalCents int64
	Items      []OrderItem
	OrderedAt  string
	Note       string
	CreatedAt  int64
}

// NewOrder creates an order for a customer.
func NewOrder(id int64, customer Customer) *Order {
	return &Order{ID: id, Customer: customer}
}

// OrderItem is a line to pick.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int64
	UnitPrice int64
}

// Shipment groups orders leaving together. Only the variadic constructor is
// exported.
type Shipment struct {
	Carrier string
	Orders  []Order
}

// NewShipment creates a shipment. Orders are optional.
func NewShipment(carrier string, orders ...Order) *Shipment {
	return &Shipment{Carrier: carrier, Orders: orders}
}

func newShipment() *Shipment {
	return &Shipment{}
}

var _ = newShipment
