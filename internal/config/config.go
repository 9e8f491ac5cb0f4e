package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DispatchInline = "inline"
	DispatchQueue  = "queue"
)

type PayPal struct {
	ClientID     string
	ClientSecret string
	Environment  string // sandbox | live
	BaseURL      string // override; kosong = turunan dari Environment
}

func (p PayPal) Configured() bool { return p.ClientID != "" && p.ClientSecret != "" }

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether mail can be sent at all; credentials are optional.
func (s SMTP) Configured() bool { return s.Host != "" && s.From != "" }

type Config struct {
	HTTPAddr           string
	ServiceName        string
	Environment        string
	LogLevel           string
	CORSAllowedOrigins []string

	PayPal PayPal
	SMTP   SMTP

	OrderAlertWebhookURL string
	NewsletterWebhookURL string // dimuat saja, belum dipakai

	StoreName             string
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	Currency              string
	HTTPClientTimeout     time.Duration

	DispatchMode   string
	NotifyDetached bool

	KafkaBrokers    []string
	RedisAddr       string
	NotifierGroup   string
	NotifierWorkers int

	TracesExporter string
	OTLPEndpoint   string
	MetricsEnabled bool
}

// Load reads the process configuration from the environment. Every malformed
// value is reported, not only the first.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8081"),
		ServiceName:        getenv("SERVICE_NAME", "checkout-api"),
		Environment:        getenv("ENVIRONMENT", "production"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),

		PayPal: PayPal{
			ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
			Environment:  strings.ToLower(getenv("PAYPAL_ENVIRONMENT", "sandbox")),
			BaseURL:      os.Getenv("PAYPAL_BASE_URL"),
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     p.integer("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("MAIL_FROM"),
		},

		OrderAlertWebhookURL: os.Getenv("ORDER_ALERT_WEBHOOK_URL"),
		NewsletterWebhookURL: os.Getenv("NEWSLETTER_WEBHOOK_URL"),

		StoreName:             getenv("STORE_NAME", "Storefront"),
		FreeShippingThreshold: p.money("FREE_SHIPPING_THRESHOLD", "50.00"),
		FlatShippingFee:       p.money("FLAT_SHIPPING_FEE", "3.49"),
		Currency:              strings.ToUpper(getenv("CURRENCY", "EUR")),
		HTTPClientTimeout:     p.duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		DispatchMode:   strings.ToLower(getenv("DISPATCH_MODE", DispatchInline)),
		NotifyDetached: p.boolean("NOTIFY_DETACHED", false),

		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		NotifierGroup:   getenv("NOTIFIER_GROUP", "checkout-notifier"),
		NotifierWorkers: p.integer("NOTIFIER_WORKERS", 4),

		TracesExporter: strings.ToLower(getenv("OTEL_TRACES_EXPORTER", "none")),
		OTLPEndpoint:   getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		MetricsEnabled: p.boolean("METRICS_ENABLED", true),
	}

	errs := p.errs
	switch cfg.DispatchMode {
	case DispatchInline:
	case DispatchQueue:
		if len(cfg.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("DISPATCH_MODE=queue requires KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("DISPATCH_MODE: unknown mode %q", cfg.DispatchMode))
	}
	if cfg.PayPal.Environment != "sandbox" && cfg.PayPal.Environment != "live" {
		errs = append(errs, fmt.Errorf("PAYPAL_ENVIRONMENT: must be sandbox or live, got %q", cfg.PayPal.Environment))
	}
	if cfg.FlatShippingFee.IsNegative() || cfg.FreeShippingThreshold.IsNegative() {
		errs = append(errs, errors.New("shipping threshold and fee must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

type parser struct {
	errs []error
}

func (p *parser) integer(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return i
}

func (p *parser) boolean(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return b
}

func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}

func (p *parser) money(k, def string) decimal.Decimal {
	d, err := decimal.NewFromString(getenv(k, def))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", k, err))
		return decimal.RequireFromString(def)
	}
	return d
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
