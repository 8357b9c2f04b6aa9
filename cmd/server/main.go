package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"student-directory/internal/api"
	"student-directory/internal/config"
	"student-directory/internal/remote"
	"student-directory/internal/store"
	"student-directory/internal/tracing"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := api.SetupGlobalHandler(os.Stdout, cfg.ServiceName, cfg.LogLevel)

	shutdownTracer, err := tracing.InitTracerProvider(cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	client := remote.NewClient(remote.Options{
		BaseURL: cfg.RemoteBaseURL,
		Timeout: cfg.RemoteTimeout,
	})
	directory := store.NewRecordSyncStore(client, cfg.PageSize, logger)

	handler := api.NewDirectoryHandler(directory)
	app := api.NewApp(cfg.ServiceName, api.RateLimit{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitExpiration,
	}, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initial load; failures land in the view as the load error message
	go func() {
		if err := directory.LoadAll(ctx); err != nil {
			slog.Warn("Initial load failed", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "service", cfg.ServiceName, "port", cfg.Port, "remote", client.BaseURL())
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server stopped", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down", "service", cfg.ServiceName)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			slog.Error("Error during shutdown", "error", err)
		}
	}
}
