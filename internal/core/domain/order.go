package domain

import "github.com/shopspring/decimal"

// OrderStatus represents the resolved payment state of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusRejected OrderStatus = "REJECTED"
	OrderStatusUnknown  OrderStatus = "UNKNOWN"
)

// LineItem is a single cart position. Quantity is normalized to >= 1 before
// an item reaches the gateway; items that stay invalid are discarded.
type LineItem struct {
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity * unit price.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Valid reports whether the item may be sent to the gateway.
func (li LineItem) Valid() bool {
	return li.Quantity >= 1 && !li.UnitPrice.IsNegative()
}

// Buyer holds the purchaser details captured at checkout. Every field
// defaults to empty; an empty Email skips the buyer-facing notification.
type Buyer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// FullName returns the display name, which may be empty.
func (b Buyer) FullName() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	default:
		return b.FirstName + " " + b.LastName
	}
}

// Order is the canonical view of a purchase resolved from a webhook
// delivery. It is owned by the dispatch that built it and never mutated
// after construction.
type Order struct {
	ID     string
	Status OrderStatus
	Items  []LineItem
	Buyer  Buyer
}

// Total returns the sum of item subtotals in the deployment currency.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// IsApproved reports whether the order's payment is confirmed.
func (o Order) IsApproved() bool {
	return o.Status == OrderStatusApproved
}
