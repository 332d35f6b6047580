package domain

// NotificationKind discriminates inbound webhook topics. Only merchant-order
// and payment shaped deliveries are actionable.
type NotificationKind string

const (
	KindMerchantOrder NotificationKind = "merchant_order"
	KindPayment       NotificationKind = "payment"
	KindOther         NotificationKind = "other"
)

// Notification is the normalized identity of one webhook delivery: a topic
// and an opaque reference (bare id or fully-qualified resource URL). It is
// built per HTTP call and discarded after dispatch.
type Notification struct {
	Kind        NotificationKind
	ReferenceID string
}

// Actionable reports whether the delivery can possibly resolve to an order.
func (n Notification) Actionable() bool {
	return (n.Kind == KindMerchantOrder || n.Kind == KindPayment) && n.ReferenceID != ""
}

// CheckoutSession is a processor-hosted checkout created for a cart. The
// buyer is redirected to CheckoutURL to pay.
type CheckoutSession struct {
	ID                 string `json:"id"`
	CheckoutURL        string `json:"checkoutUrl"`
	SandboxCheckoutURL string `json:"sandboxCheckoutUrl,omitempty"`
}
