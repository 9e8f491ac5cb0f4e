// Package app builds the collaborators shared by the checkout binaries from config.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/config"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/payment"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

// Observability is the telemetry of one process.
type Observability struct {
	Log     *zap.Logger
	Metrics *telemetry.Metrics
	// Shutdown flushes spans and syncs the logger.
	Shutdown func(ctx context.Context) error
}

func NewObservability(ctx context.Context, cfg config.Config, serviceName string) (*Observability, error) {
	log, err := telemetry.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("service", serviceName))

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName, cfg.TracesExporter, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	var metrics *telemetry.Metrics
	if cfg.MetricsEnabled {
		if _, err := telemetry.SetupMetrics(); err != nil {
			return nil, err
		}
		if metrics, err = telemetry.NewMetrics(); err != nil {
			return nil, fmt.Errorf("telemetry: create instruments: %w", err)
		}
	}

	return &Observability{
		Log:     log,
		Metrics: metrics,
		Shutdown: func(ctx context.Context) error {
			err := shutdownTracer(ctx)
			_ = log.Sync()
			return err
		},
	}, nil
}

func Pricing(cfg config.Config) orders.Pricing {
	return orders.Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

var ErrPayPalNotConfigured = errors.New("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required")

func NewVerifier(cfg config.Config, log *zap.Logger, m *telemetry.Metrics) (*payment.Verifier, error) {
	if !cfg.PayPal.Configured() {
		return nil, ErrPayPalNotConfigured
	}
	client, err := payment.NewPayPalClient(payment.PayPalConfig{
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Environment:  cfg.PayPal.Environment,
		BaseURL:      cfg.PayPal.BaseURL,
		Timeout:      cfg.HTTPClientTimeout,
	})
	if err != nil {
		return nil, err
	}
	return payment.NewVerifier(client, log, m), nil
}

// DeliveryChannels returns the channels that reach people: the team alert
// webhook and the customer email. Unconfigured channels are left out.
func DeliveryChannels(cfg config.Config, log *zap.Logger) ([]notify.Channel, error) {
	format := notify.Formatter{StoreName: cfg.StoreName, Currency: cfg.Currency}
	var chans []notify.Channel

	if cfg.OrderAlertWebhookURL != "" {
		chans = append(chans, &notify.AlertChannel{
			URL:    cfg.OrderAlertWebhookURL,
			Poster: notify.NewHTTPPoster(cfg.HTTPClientTimeout),
			Format: format,
		})
	} else {
		log.Info("team alert channel disabled: ORDER_ALERT_WEBHOOK_URL not set")
	}

	if cfg.SMTP.Configured() {
		mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.HTTPClientTimeout,
		})
		if err != nil {
			return nil, err
		}
		chans = append(chans, &notify.EmailChannel{Mailer: mailer, Format: format})
	} else {
		log.Info("customer email channel disabled: SMTP_HOST or MAIL_FROM not set")
	}
	return chans, nil
}
