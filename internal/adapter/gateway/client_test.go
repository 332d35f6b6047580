package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-bridge/config"
	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.GatewayConfig{
		AccessToken: "APP_USR-test",
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
		Currency:    "ARS",
		Descriptor:  "TEST STORE",
	}
	urls := config.URLConfig{
		PublicBase: "https://store.example.com",
		Webhook:    "https://api.example.com/api/webhooks/mercadopago",
	}
	return New(cfg, urls, &http.Client{Timeout: cfg.Timeout}, zerolog.New(io.Discard))
}

func TestCreatePreference_Success(t *testing.T) {
	var got wirePreferenceRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		require.Equal(t, "Bearer APP_USR-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]string{
			"id":                 "pref-123",
			"init_point":         "https://mp.example/init",
			"sandbox_init_point": "https://mp.example/sandbox",
		})
	}))

	session, err := client.CreatePreference(context.Background(), ports.CreatePreferenceRequest{
		Items: []domain.LineItem{
			{Title: "Torrontés 750ml", Quantity: 2, UnitPrice: decimal.RequireFromString("1000")},
		},
		Buyer: domain.Buyer{FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com", DNI: "30111222"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-123", session.ID)
	assert.Equal(t, "https://mp.example/init", session.CheckoutURL)
	assert.Equal(t, "https://mp.example/sandbox", session.SandboxCheckoutURL)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "ARS", got.Items[0].CurrencyID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.InDelta(t, 1000, got.Items[0].UnitPrice, 0.001)
	assert.Equal(t, "approved", got.AutoReturn)
	assert.Equal(t, "https://store.example.com/gracias", got.BackURLs.Success)
	assert.Equal(t, "https://api.example.com/api/webhooks/mercadopago", got.NotificationURL)
	assert.Equal(t, "30111222", got.Payer.Identification.Number)
	assert.NotEmpty(t, got.ExternalReference)
}

func TestCreatePreference_Rejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid access token"}`))
	}))

	_, err := client.CreatePreference(context.Background(), ports.CreatePreferenceRequest{
		Items: []domain.LineItem{{Title: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GW_001", appErr.Code)
	// Upstream body is preserved for logs but not in the client message.
	assert.Contains(t, appErr.Err.Error(), "invalid access token")
	assert.NotContains(t, appErr.Message, "invalid access token")
}

func TestMerchantOrderByReference_BareID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchant_orders/4242", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 4242, "status": "closed", "preference_id": "pref-9",
		})
	}))

	mo, err := client.MerchantOrderByReference(context.Background(), "4242")
	require.NoError(t, err)
	assert.Equal(t, "4242", mo.ID)
	assert.True(t, mo.Paid())
	assert.Equal(t, "pref-9", mo.PreferenceID)
}

func TestMerchantOrderByReference_ResourceURL(t *testing.T) {
	var hits int
	mux := http.NewServeMux()
	mux.HandleFunc("/merchant_orders/777", func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 777, "status": "opened"})
	})
	client := newTestClient(t, mux)

	// The resource URL is used verbatim; point it at the same test server.
	mo, err := client.MerchantOrderByReference(context.Background(), client.baseURL+"/merchant_orders/777")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, "777", mo.ID)
	assert.False(t, mo.Paid())
}

func TestPaymentByID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/555", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 555, "status": "approved", "preference_id": "pref-5",
		})
	}))

	p, err := client.PaymentByID(context.Background(), "555")
	require.NoError(t, err)
	assert.True(t, p.Approved())
	assert.Equal(t, "pref-5", p.PreferenceID)
}

func TestPreferenceByID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/checkout/preferences/pref-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "pref-9",
			"items": []map[string]interface{}{
				{"title": "Torrontés 750ml", "quantity": 2, "unit_price": 1000},
			},
			"payer": map[string]interface{}{
				"name": "Ana", "surname": "Pérez", "email": "ana@example.com",
				"phone":          map[string]string{"number": "+54911"},
				"identification": map[string]string{"type": "DNI", "number": "30111222"},
				"address":        map[string]string{"street_name": "Calle Falsa 123"},
			},
		})
	}))

	pref, err := client.PreferenceByID(context.Background(), "pref-9")
	require.NoError(t, err)
	require.Len(t, pref.Items, 1)
	assert.Equal(t, "Torrontés 750ml", pref.Items[0].Title)
	assert.True(t, pref.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "ana@example.com", pref.Payer.Email)
	assert.Equal(t, "Calle Falsa 123", pref.Payer.Address)
}

func TestLookup_Non2xx_IsGatewayUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.PaymentByID(context.Background(), "999")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GW_002", appErr.Code)
}

func TestLookup_Timeout_IsGatewayUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.MerchantOrderByReference(ctx, "1")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GW_002", appErr.Code)
}
