package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

// Poster is the webhook transport.
type Poster interface {
	PostJSON(ctx context.Context, url string, payload any) error
}

type HTTPPoster struct {
	Client *http.Client
}

func NewHTTPPoster(timeout time.Duration) *HTTPPoster {
	return &HTTPPoster{Client: &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}}
}

func (p *HTTPPoster) PostJSON(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

// maxAlertRunes is the content limit of chat webhooks (Discord).
const maxAlertRunes = 2000

type webhookMessage struct {
	Username string `json:"username,omitempty"`
	Content  string `json:"content"`
}

// AlertChannel posts order alerts to the team webhook.
type AlertChannel struct {
	URL    string
	Poster Poster
	Format Formatter
}

func (c *AlertChannel) Name() string { return "team-alert" }

func (c *AlertChannel) Accepts(ev orders.Event) bool {
	if c.URL == "" {
		return false
	}
	switch ev.(type) {
	case orders.OrderCreated, orders.OrderPaid:
		return true
	}
	return false
}

func (c *AlertChannel) Send(ctx context.Context, ev orders.Event) error {
	text, err := c.Format.AlertText(ev)
	if err != nil {
		return err
	}
	if r := []rune(text); len(r) > maxAlertRunes {
		text = string(r[:maxAlertRunes-1]) + "…"
	}
	return c.Poster.PostJSON(ctx, c.URL, webhookMessage{Username: c.Format.StoreName, Content: text})
}
