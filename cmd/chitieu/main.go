package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"chitieu/internal/backend"
	"chitieu/internal/config"
	apphttp "chitieu/internal/http"
	applog "chitieu/internal/log"
	"chitieu/internal/theme"
	"chitieu/internal/tracker"

	appamqp "chitieu/internal/amqp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.Open(ctx, backendCfg, logger.WithComponent(applog.ComponentBackend))
	if err != nil {
		logger.Error("Failed to open backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", "error", err)
		}
	}()

	// Change events are optional; without AMQP the app runs standalone.
	var publisher tracker.Publisher
	if cfg.AMQPURL != "" {
		client, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ctrl := tracker.New(result.Expenses, publisher, logger.WithComponent(applog.ComponentTracker))
	themes := theme.New(result.KV)

	// Initial load runs in the background; the UI polls the view while
	// loading is still set.
	go func() {
		if err := ctrl.Load(ctx); err != nil {
			logger.Warn("Initial expense load failed", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, ctrl, themes, logger.WithComponent(applog.ComponentHTTP))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting chitieu server", "port", cfg.Port, "backend", backend.Decide(backendCfg).String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
