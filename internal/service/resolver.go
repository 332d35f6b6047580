package service

import (
	"context"

	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"

	"github.com/rs/zerolog"
)

// OrderResolver turns a webhook notification into a canonical Order, or
// determines that no actionable order exists yet. "No order" is (nil, nil);
// only gateway failures produce an error.
type OrderResolver struct {
	gateway ports.PaymentGateway
	log     zerolog.Logger
}

// NewOrderResolver creates an order resolver.
func NewOrderResolver(gateway ports.PaymentGateway, log zerolog.Logger) *OrderResolver {
	return &OrderResolver{gateway: gateway, log: log}
}

// Resolve performs the bounded call sequence of the reconciliation path:
// dereference the notified resource, require a paid/approved status, then
// re-fetch the originating preference to recover items and buyer, since the
// delivery itself carries identifiers only.
func (r *OrderResolver) Resolve(ctx context.Context, n domain.Notification) (*domain.Order, error) {
	if !n.Actionable() {
		return nil, nil
	}

	var (
		orderID      string
		preferenceID string
	)

	switch n.Kind {
	case domain.KindMerchantOrder:
		mo, err := r.gateway.MerchantOrderByReference(ctx, n.ReferenceID)
		if err != nil {
			return nil, err
		}
		if !mo.Paid() {
			// Normal pending state, not an error.
			r.log.Debug().Str("merchant_order", mo.ID).Str("status", mo.Status).Msg("merchant order not closed yet")
			return nil, nil
		}
		orderID = mo.ID
		preferenceID = mo.PreferenceID

	case domain.KindPayment:
		p, err := r.gateway.PaymentByID(ctx, n.ReferenceID)
		if err != nil {
			return nil, err
		}
		if !p.Approved() {
			r.log.Debug().Str("payment", p.ID).Str("status", p.Status).Msg("payment not approved yet")
			return nil, nil
		}
		orderID = p.ID
		preferenceID = p.PreferenceID
	}

	order := &domain.Order{ID: orderID, Status: domain.OrderStatusApproved}

	// Preference lookup failure is degraded-but-safe: the admin still gets a
	// notification showing zero items rather than no notification at all.
	if preferenceID == "" {
		r.log.Warn().Str("order_id", orderID).Msg("no preference id on paid record, order resolved without items")
		return order, nil
	}
	pref, err := r.gateway.PreferenceByID(ctx, preferenceID)
	if err != nil {
		r.log.Warn().Err(err).Str("order_id", orderID).Str("preference_id", preferenceID).
			Msg("preference lookup failed, order resolved without items")
		return order, nil
	}

	for _, it := range pref.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, domain.LineItem{
			Title:     it.Title,
			Quantity:  qty,
			UnitPrice: it.UnitPrice,
		})
	}
	order.Buyer = domain.Buyer{
		FirstName: pref.Payer.Name,
		LastName:  pref.Payer.Surname,
		Email:     pref.Payer.Email,
		Phone:     pref.Payer.Phone,
		DNI:       pref.Payer.DNI,
		Address:   pref.Payer.Address,
	}

	return order, nil
}
