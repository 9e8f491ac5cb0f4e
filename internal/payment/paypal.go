package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // sandbox | live
	BaseURL      string // overrides Environment when set
	Timeout      time.Duration
	Transport    http.RoundTripper
}

func BaseURLFor(environment string) (string, error) {
	switch environment {
	case "", "sandbox":
		return SandboxBaseURL, nil
	case "live", "production":
		return LiveBaseURL, nil
	}
	return "", fmt.Errorf("paypal: unknown environment %q", environment)
}

// PayPalClient reads checkout orders from the PayPal Orders v2 API.
// Access tokens are fetched with client credentials and reused until they expire.
type PayPalClient struct {
	baseURL string
	http    *http.Client
}

var _ Provider = (*PayPalClient)(nil)

func NewPayPalClient(cfg PayPalConfig) (*PayPalClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("paypal: client id and secret are required")
	}
	base := cfg.BaseURL
	if base == "" {
		var err error
		if base, err = BaseURLFor(cfg.Environment); err != nil {
			return nil, err
		}
	}
	base = strings.TrimRight(base, "/")

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	plain := &http.Client{Timeout: cfg.Timeout, Transport: otelhttp.NewTransport(rt)}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, plain)
	authed := cc.Client(ctx)
	authed.Timeout = cfg.Timeout

	return &PayPalClient{baseURL: base, http: authed}, nil
}

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
		Name         struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

func (c *PayPalClient) LookupPayment(ctx context.Context, id string) (Lookup, error) {
	endpoint := c.baseURL + "/v2/checkout/orders/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Lookup{}, fmt.Errorf("paypal: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Lookup{}, fmt.Errorf("paypal: get order %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Lookup{}, fmt.Errorf("paypal: %w: %s", ErrUnknownPayment, id)
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Lookup{}, fmt.Errorf("paypal: get order %s: status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var po paypalOrder
	if err := json.NewDecoder(resp.Body).Decode(&po); err != nil {
		return Lookup{}, fmt.Errorf("paypal: decode order %s: %w", id, err)
	}

	lk := Lookup{
		ID:        po.ID,
		RawStatus: po.Status,
		Payer: orders.Payer{
			Name:  strings.TrimSpace(po.Payer.Name.GivenName + " " + po.Payer.Name.Surname),
			Email: po.Payer.EmailAddress,
		},
	}
	if len(po.PurchaseUnits) > 0 {
		lk.Amount = po.PurchaseUnits[0].Amount.Value
		lk.Currency = po.PurchaseUnits[0].Amount.CurrencyCode
	}
	return lk, nil
}
