// Package gateway implements the outbound Mercado Pago API client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"checkout-bridge/config"
	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.PaymentGateway against the Mercado Pago REST API.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	token      string
	currency   string
	descriptor string
	publicBase string
	webhookURL string
	log        zerolog.Logger
}

// New creates a gateway client. The caller supplies the HTTP client so the
// outbound timeout is set in one place (and tests can stub transport).
func New(cfg config.GatewayConfig, urls config.URLConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.AccessToken,
		currency:   cfg.Currency,
		descriptor: cfg.Descriptor,
		publicBase: strings.TrimRight(urls.PublicBase, "/"),
		webhookURL: urls.Webhook,
		log:        log,
	}
}

// Wire shapes. Prices travel as JSON numbers on this API.

type wireItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type wirePayer struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email,omitempty"`
	Phone          struct {
		Number string `json:"number"`
	} `json:"phone"`
	Identification struct {
		Type   string `json:"type"`
		Number string `json:"number"`
	} `json:"identification"`
	Address struct {
		StreetName string `json:"street_name"`
	} `json:"address"`
}

type wirePreferenceRequest struct {
	Items               []wireItem `json:"items"`
	Payer               wirePayer  `json:"payer"`
	BackURLs            wireBackURLs `json:"back_urls"`
	AutoReturn          string     `json:"auto_return"`
	NotificationURL     string     `json:"notification_url,omitempty"`
	StatementDescriptor string     `json:"statement_descriptor,omitempty"`
	ExternalReference   string     `json:"external_reference"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

type wireBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type wirePreferenceResponse struct {
	ID               string     `json:"id"`
	InitPoint        string     `json:"init_point"`
	SandboxInitPoint string     `json:"sandbox_init_point"`
	Items            []wireItem `json:"items"`
	Payer            wirePayer  `json:"payer"`
}

type wireMerchantOrder struct {
	ID           json.Number `json:"id"`
	Status       string      `json:"status"`
	PreferenceID string      `json:"preference_id"`
}

type wirePayment struct {
	ID           json.Number `json:"id"`
	Status       string      `json:"status"`
	PreferenceID string      `json:"preference_id"`
}

// CreatePreference creates a hosted checkout for the cart.
func (c *Client) CreatePreference(ctx context.Context, req ports.CreatePreferenceRequest) (*domain.CheckoutSession, error) {
	body := wirePreferenceRequest{
		Items:               make([]wireItem, 0, len(req.Items)),
		BackURLs:            c.backURLs(),
		AutoReturn:          "approved",
		NotificationURL:     c.webhookURL,
		StatementDescriptor: c.descriptor,
		ExternalReference:   "order_" + uuid.NewString(),
	}
	for _, it := range req.Items {
		body.Items = append(body.Items, wireItem{
			Title:      it.Title,
			Quantity:   it.Quantity,
			CurrencyID: c.currency,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
		})
	}
	body.Payer.Name = req.Buyer.FirstName
	body.Payer.Surname = req.Buyer.LastName
	body.Payer.Email = req.Buyer.Email
	body.Payer.Phone.Number = req.Buyer.Phone
	body.Payer.Identification.Type = "DNI"
	body.Payer.Identification.Number = req.Buyer.DNI
	body.Payer.Address.StreetName = req.Buyer.Address
	if req.Note != "" {
		body.Metadata = map[string]string{"note": req.Note}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal preference: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build preference request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrGatewayUnavailable(fmt.Errorf("create preference: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Str("body", string(detail)).Msg("gateway rejected preference")
		return nil, apperror.ErrGatewayRejected(fmt.Errorf("status %d: %s", resp.StatusCode, detail))
	}

	var pref wirePreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, apperror.ErrGatewayUnavailable(fmt.Errorf("decode preference response: %w", err))
	}

	return &domain.CheckoutSession{
		ID:                 pref.ID,
		CheckoutURL:        pref.InitPoint,
		SandboxCheckoutURL: pref.SandboxInitPoint,
	}, nil
}

// MerchantOrderByReference dereferences a merchant order from a bare id or a
// fully-qualified resource URL.
func (c *Client) MerchantOrderByReference(ctx context.Context, ref string) (*ports.MerchantOrder, error) {
	url := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		url = c.baseURL + "/merchant_orders/" + ref
	}

	var mo wireMerchantOrder
	if err := c.getJSON(ctx, url, &mo); err != nil {
		return nil, err
	}
	return &ports.MerchantOrder{
		ID:           mo.ID.String(),
		Status:       mo.Status,
		PreferenceID: mo.PreferenceID,
	}, nil
}

// PaymentByID fetches a single payment attempt.
func (c *Client) PaymentByID(ctx context.Context, id string) (*ports.Payment, error) {
	var p wirePayment
	if err := c.getJSON(ctx, c.baseURL+"/v1/payments/"+id, &p); err != nil {
		return nil, err
	}
	return &ports.Payment{
		ID:           p.ID.String(),
		Status:       p.Status,
		PreferenceID: p.PreferenceID,
	}, nil
}

// PreferenceByID re-fetches the checkout preference for items and payer.
func (c *Client) PreferenceByID(ctx context.Context, id string) (*ports.Preference, error) {
	var pref wirePreferenceResponse
	if err := c.getJSON(ctx, c.baseURL+"/checkout/preferences/"+id, &pref); err != nil {
		return nil, err
	}

	out := &ports.Preference{ID: pref.ID}
	for _, it := range pref.Items {
		out.Items = append(out.Items, ports.PreferenceItem{
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
		})
	}
	out.Payer = ports.PreferencePayer{
		Name:    pref.Payer.Name,
		Surname: pref.Payer.Surname,
		Email:   pref.Payer.Email,
		Phone:   pref.Payer.Phone.Number,
		DNI:     pref.Payer.Identification.Number,
		Address: pref.Payer.Address.StreetName,
	}
	return out, nil
}

// getJSON performs an authenticated GET and decodes the response. Network
// failures and non-2xx statuses both map to GatewayUnavailable: on the
// webhook path these are always non-fatal to the caller.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("build gateway request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.ErrGatewayUnavailable(fmt.Errorf("GET %s: %w", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Str("url", url).Str("body", string(detail)).Msg("gateway lookup failed")
		return apperror.ErrGatewayUnavailable(fmt.Errorf("GET %s: status %d", url, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.ErrGatewayUnavailable(fmt.Errorf("decode %s: %w", url, err))
	}
	return nil
}

// backURLs builds the storefront redirect targets from the public base URL.
func (c *Client) backURLs() wireBackURLs {
	return wireBackURLs{
		Success: c.publicBase + "/gracias",
		Pending: c.publicBase + "/pendiente",
		Failure: c.publicBase + "/error",
	}
}
