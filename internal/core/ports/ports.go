package ports

import (
	"context"

	"checkout-bridge/internal/core/domain"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// PaymentGateway is the outbound Mercado Pago surface. All calls attach the
// bearer credential configured at startup and obey the client timeout.
type PaymentGateway interface {
	// CreatePreference creates a hosted checkout for the cart.
	// Fails with GatewayRejected on a non-success processor response.
	CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*domain.CheckoutSession, error)

	// MerchantOrderByReference dereferences a merchant order. ref may be a
	// bare id or a fully-qualified resource URL; both are accepted.
	MerchantOrderByReference(ctx context.Context, ref string) (*MerchantOrder, error)

	// PaymentByID fetches a single payment attempt.
	PaymentByID(ctx context.Context, id string) (*Payment, error)

	// PreferenceByID re-fetches the checkout preference to recover the item
	// list and payer attached at creation time.
	PreferenceByID(ctx context.Context, id string) (*Preference, error)
}

// CreatePreferenceRequest holds validated input for checkout creation.
// Items are already normalized: non-empty, every quantity >= 1.
type CreatePreferenceRequest struct {
	Items []domain.LineItem
	Buyer domain.Buyer
	Note  string
}

// MerchantOrder is the processor's aggregate order record.
// Status "closed" means fully paid.
type MerchantOrder struct {
	ID           string
	Status       string
	PreferenceID string
}

// Paid reports whether the merchant order is fully paid.
func (m MerchantOrder) Paid() bool { return m.Status == "closed" }

// Payment is the processor's record of one payment attempt.
type Payment struct {
	ID           string
	Status       string
	PreferenceID string
}

// Approved reports whether the payment attempt succeeded.
func (p Payment) Approved() bool { return p.Status == "approved" }

// Preference is the checkout session as originally created, carrying the
// line items and payer metadata the webhook delivery itself lacks.
type Preference struct {
	ID    string
	Items []PreferenceItem
	Payer PreferencePayer
}

// PreferenceItem mirrors one item of the created preference.
type PreferenceItem struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PreferencePayer mirrors the payer block of the created preference.
type PreferencePayer struct {
	Name    string
	Surname string
	Email   string
	Phone   string
	DNI     string
	Address string
}

// Email is one outbound notification message.
type Email struct {
	To      []string
	CC      string
	ReplyTo string
	Subject string
	HTML    string
}

// Notifier sends order notification emails over the configured relay.
// Failures map to MailUnavailable and must never reach an HTTP caller.
type Notifier interface {
	Send(ctx context.Context, msg Email) error
}

// DedupStore is the idempotency guard over notified order ids.
// Claim atomically checks and marks in one step: it returns true exactly
// once per order id across concurrent dispatches. A claim is never released
// on notification failure.
type DedupStore interface {
	Claim(ctx context.Context, orderID string) (bool, error)
}
