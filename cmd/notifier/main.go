package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/app"
	"github.com/ariefcatur/go-storefront-checkout/internal/config"
	kafkax "github.com/ariefcatur/go-storefront-checkout/internal/kafka"
	"github.com/ariefcatur/go-storefront-checkout/internal/notifier"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatalf("KAFKA_BROKERS is required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceName := cfg.ServiceName + "-notifier"
	obs, err := app.NewObservability(ctx, cfg, serviceName)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	logger := obs.Log

	channels, err := app.DeliveryChannels(cfg, logger)
	if err != nil {
		logger.Fatal("notification channels", zap.Error(err))
	}

	svc := &notifier.Service{
		Dispatcher: notify.NewDispatcher(logger, obs.Metrics, channels...),
		Log:        logger,
	}

	// Redis (opsional): dedup per event_id
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		svc.Dedup = redisx.NewDedup(rdb, serviceName)
	} else {
		logger.Warn("REDIS_ADDR not set, redelivered events will be notified again")
	}

	// Consumer
	topics := []string{orders.TopicOrderCreated, orders.TopicOrderPaid}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, topics, cfg.NotifierWorkers, logger)

	logger.Info("notifier consumer started",
		zap.String("group", cfg.NotifierGroup),
		zap.Strings("topics", topics),
		zap.Int("workers", cfg.NotifierWorkers))
	if err := cons.Start(ctx, svc.HandleEvent); err != nil {
		logger.Error("consumer exit", zap.Error(err))
	}

	logger.Info("shutting down consumer...")
	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = obs.Shutdown(ctx2)
}
