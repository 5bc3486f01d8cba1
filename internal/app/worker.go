package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/metrics"
	"go-leave/internal/shared/connection"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	_, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go serveMetrics(ctx, cfg, registry, logger)

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, collector, logger, outboxPollInterval)

	logger.Info("worker shutting down")
	return nil
}

// serveMetrics exposes the process registry on METRICS_PORT until ctx ends.
func serveMetrics(ctx context.Context, cfg *config.Config, registry *prometheus.Registry, logger *zap.Logger) {
	err := bootstrap.Serve(
		ctx,
		metrics.Handler(registry),
		bootstrap.DefaultServerConfig(cfg.MetricsPort),
		bootstrap.NewStdoutAuditLogger(logger),
	)
	if err != nil {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
