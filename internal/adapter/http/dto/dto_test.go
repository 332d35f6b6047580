package dto

import (
	"encoding/json"
	"net/url"
	"testing"

	"checkout-bridge/internal/core/domain"
	"checkout-bridge/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) CreateCheckoutRequest {
	t.Helper()
	var req CreateCheckoutRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestNormalize_CanonicalShape(t *testing.T) {
	req := decode(t, `{
		"items": [
			{"title": "Torrontés 750ml", "quantity": 2, "unit_price": 1000},
			{"title": "Malbec 750ml", "quantity": 1, "unit_price": "1550.50"}
		],
		"buyer": {"first_name": "Ana", "last_name": "Pérez", "email": "ana@example.com"},
		"note": "entregar de tarde"
	}`)

	out, err := req.Normalize()
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Items[0].Quantity)
	assert.True(t, out.Items[1].UnitPrice.Equal(decimal.RequireFromString("1550.50")))
	assert.Equal(t, "Ana", out.Buyer.FirstName)
	assert.Equal(t, "entregar de tarde", out.Note)
}

func TestNormalize_LegacyFlatItem(t *testing.T) {
	req := decode(t, `{"title": "Torrontés 750ml", "quantity": "3", "unit_price": "1000",
		"first_name": "Ana", "email": "ana@example.com"}`)

	out, err := req.Normalize()
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Torrontés 750ml", out.Items[0].Title)
	assert.Equal(t, 3, out.Items[0].Quantity, "string quantity is coerced")
	assert.Equal(t, "Ana", out.Buyer.FirstName, "flattened buyer fields are honored")
}

func TestNormalize_NestedBuyerWinsOverFlattened(t *testing.T) {
	req := decode(t, `{"items": [{"title": "A", "unit_price": 10}],
		"first_name": "Old", "buyer": {"first_name": "New"}}`)

	out, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "New", out.Buyer.FirstName)
}

func TestNormalize_Defaults(t *testing.T) {
	req := decode(t, `{"items": [{"title": "A"}]}`)

	out, err := req.Normalize()
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Items[0].Quantity, "absent quantity defaults to 1")
	assert.True(t, out.Items[0].UnitPrice.IsZero(), "absent price defaults to 0")
}

func TestNormalize_UntitledItemGetsPlaceholder(t *testing.T) {
	req := decode(t, `{"quantity": 1, "unit_price": 500}`)

	out, err := req.Normalize()
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Producto", out.Items[0].Title)
}

func TestNormalize_ExcludesInvalidItems(t *testing.T) {
	req := decode(t, `{"items": [
		{"title": "Valid", "quantity": 1, "unit_price": 100},
		{"title": "ZeroQty", "quantity": 0, "unit_price": 100},
		{"title": "Negative", "quantity": -1, "unit_price": 100}
	]}`)

	out, err := req.Normalize()
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Valid", out.Items[0].Title)
}

func TestNormalize_EmptyCartRejected(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":        `{}`,
		"all items invalid": `{"items": [{"title": "A", "quantity": 0, "unit_price": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := decode(t, body)
			_, err := req.Normalize()
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "REQ_001", appErr.Code)
		})
	}
}

func TestNormalizeNotification_QueryShapes(t *testing.T) {
	n := NormalizeNotification(url.Values{"topic": {"merchant_order"}, "id": {"4242"}}, nil)
	assert.Equal(t, domain.KindMerchantOrder, n.Kind)
	assert.Equal(t, "4242", n.ReferenceID)

	n = NormalizeNotification(url.Values{"type": {"payment"}, "data.id": {"555"}}, nil)
	assert.Equal(t, domain.KindPayment, n.Kind)
	assert.Equal(t, "555", n.ReferenceID)
}

func TestNormalizeNotification_BodyShapes(t *testing.T) {
	n := NormalizeNotification(nil, []byte(`{"type":"payment","data":{"id":"555"}}`))
	assert.Equal(t, domain.KindPayment, n.Kind)
	assert.Equal(t, "555", n.ReferenceID)

	n = NormalizeNotification(nil, []byte(`{"topic":"merchant_order","resource":"https://api.mercadopago.com/merchant_orders/4242"}`))
	assert.Equal(t, domain.KindMerchantOrder, n.Kind)
	assert.Equal(t, "https://api.mercadopago.com/merchant_orders/4242", n.ReferenceID)

	n = NormalizeNotification(nil, []byte(`{"action":"payment.updated","data":{"id":123}}`))
	assert.Equal(t, domain.KindPayment, n.Kind)
	assert.Equal(t, "123", n.ReferenceID, "numeric data.id is accepted")
}

func TestNormalizeNotification_QueryWinsOverBody(t *testing.T) {
	n := NormalizeNotification(
		url.Values{"topic": {"merchant_order"}, "id": {"1"}},
		[]byte(`{"type":"payment","data":{"id":"2"}}`),
	)
	assert.Equal(t, domain.KindMerchantOrder, n.Kind)
	assert.Equal(t, "1", n.ReferenceID)
}

func TestNormalizeNotification_Unrecognized(t *testing.T) {
	n := NormalizeNotification(nil, []byte(`{"hello":"world"}`))
	assert.Equal(t, domain.KindOther, n.Kind)
	assert.False(t, n.Actionable())

	n = NormalizeNotification(nil, []byte(`not json at all`))
	assert.False(t, n.Actionable(), "malformed body is tolerated, never an error")

	n = NormalizeNotification(url.Values{"topic": {"test"}}, nil)
	assert.Equal(t, domain.KindOther, n.Kind)
}
