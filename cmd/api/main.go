package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/app"
	"github.com/ariefcatur/go-storefront-checkout/internal/checkout"
	"github.com/ariefcatur/go-storefront-checkout/internal/config"
	"github.com/ariefcatur/go-storefront-checkout/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront-checkout/internal/kafka"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := app.NewObservability(ctx, cfg, cfg.ServiceName)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	logger := obs.Log

	verifier, err := app.NewVerifier(cfg, logger, obs.Metrics)
	if err != nil {
		logger.Fatal("payment verifier", zap.Error(err))
	}

	// Notification channels: inline = kirim langsung, queue = publish ke kafka
	var (
		channels []notify.Channel
		prod     *kafkax.Producer
	)
	switch cfg.DispatchMode {
	case config.DispatchQueue:
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
		prod.Start(context.Background()) // ditutup manual setelah server berhenti
		channels = []notify.Channel{&notify.QueueChannel{Publisher: prod, Producer: cfg.ServiceName}}
	default:
		if channels, err = app.DeliveryChannels(cfg, logger); err != nil {
			logger.Fatal("notification channels", zap.Error(err))
		}
	}
	dispatcher := notify.NewDispatcher(logger, obs.Metrics, channels...)

	pricing := app.Pricing(cfg)
	svc := checkout.New(checkout.Deps{
		Pricing:  &pricing,
		Verifier: verifier,
		Notifier: dispatcher,
		Currency: cfg.Currency,
		Detach:   cfg.NotifyDetached,
		Log:      logger,
		Metrics:  obs.Metrics,
	})

	// Router & handler
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = promhttp.Handler()
	}
	router := httpx.NewRouter(httpx.RouterOptions{
		Log:            logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        metricsHandler,
	})
	(&httpx.OrdersHandler{Checkout: svc, Log: logger}).Register(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.Instrument(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("dispatch_mode", cfg.DispatchMode),
			zap.Strings("channels", dispatcher.Channels()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// wait signal
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("listen", zap.Error(err))
	}
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := svc.Drain(ctx2); err != nil {
		logger.Warn("background notifications still running", zap.Error(err))
	}
	if prod != nil {
		prod.Close()      // tutup inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
	_ = obs.Shutdown(ctx2)
}
