// The worker consumes expense change events from AMQP and appends them to
// a JSONL audit log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appamqp "chitieu/internal/amqp"
	"chitieu/internal/config"
	applog "chitieu/internal/log"
	"chitieu/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the event worker")
		os.Exit(1)
	}

	client, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	audit, err := worker.NewAuditLog(cfg.AuditLogPath)
	if err != nil {
		logger.Error("Failed to open audit log", "error", err)
		os.Exit(1)
	}
	defer audit.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting event worker", "queue", cfg.AMQPQueue, "audit_log", cfg.AuditLogPath)
	err = client.ConsumeExpenseEvents(ctx, audit.Record)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
