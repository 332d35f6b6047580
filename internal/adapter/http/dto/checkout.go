// Package dto normalizes the storefront's historical request shapes into
// canonical internal types.
package dto

import (
	"bytes"
	"strconv"
	"strings"

	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/pkg/apperror"

	"github.com/shopspring/decimal"
)

// FlexInt decodes a JSON number or a numeric string. Absent and garbage
// values leave Set false so callers can apply defaults.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Type coercion only, per the historical behavior: garbage is
		// treated as absent rather than rejected.
		return nil
	}
	f.Value = n
	f.Set = true
	return nil
}

// FlexDecimal decodes a JSON number or numeric string into a decimal.
type FlexDecimal struct {
	Value decimal.Decimal
	Set   bool
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f.Value = d
	f.Set = true
	return nil
}

// CheckoutItem is one cart position as sent by the storefront.
type CheckoutItem struct {
	Title     string      `json:"title"`
	Quantity  FlexInt     `json:"quantity"`
	UnitPrice FlexDecimal `json:"unit_price"`
}

// CheckoutBuyer is the buyer block, nested or flattened.
type CheckoutBuyer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// CreateCheckoutRequest accepts every historical storefront shape:
// a canonical items array with a nested buyer, a legacy flat single item
// (title/quantity/unit_price on the body), and legacy buyer fields
// flattened onto the body. Normalize folds them into one canonical type.
type CreateCheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
	Buyer *CheckoutBuyer `json:"buyer"`
	Note  string         `json:"note"`

	// Legacy flat single-item shape.
	Title     string      `json:"title"`
	Quantity  FlexInt     `json:"quantity"`
	UnitPrice FlexDecimal `json:"unit_price"`

	// Legacy flattened buyer shape.
	CheckoutBuyer
}

// Normalize produces the canonical gateway request. Items with a quantity
// that was explicitly <= 0 are excluded; an absent quantity defaults to 1.
// An empty cart after filtering rejects the whole request.
func (r CreateCheckoutRequest) Normalize() (ports.CreatePreferenceRequest, error) {
	raw := r.Items
	if len(raw) == 0 && (r.Title != "" || r.UnitPrice.Set) {
		raw = []CheckoutItem{{Title: r.Title, Quantity: r.Quantity, UnitPrice: r.UnitPrice}}
	}

	var items []domain.LineItem
	for _, it := range raw {
		item := domain.LineItem{
			Title:     it.Title,
			Quantity:  1,
			UnitPrice: decimal.Zero,
		}
		if item.Title == "" {
			item.Title = "Producto"
		}
		if it.Quantity.Set {
			item.Quantity = it.Quantity.Value
		}
		if it.UnitPrice.Set {
			item.UnitPrice = it.UnitPrice.Value
		}
		if !item.Valid() {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return ports.CreatePreferenceRequest{}, apperror.ErrEmptyCart()
	}

	buyer := r.CheckoutBuyer
	if r.Buyer != nil {
		buyer = *r.Buyer
	}

	return ports.CreatePreferenceRequest{
		Items: items,
		Buyer: domain.Buyer{
			FirstName: buyer.FirstName,
			LastName:  buyer.LastName,
			DNI:       buyer.DNI,
			Phone:     buyer.Phone,
			Email:     buyer.Email,
			Address:   buyer.Address,
		},
		Note: r.Note,
	}, nil
}

// CheckoutResponse is the success body for checkout creation.
type CheckoutResponse struct {
	ID                 string `json:"id"`
	CheckoutURL        string `json:"checkoutUrl"`
	SandboxCheckoutURL string `json:"sandboxCheckoutUrl,omitempty"`
}
