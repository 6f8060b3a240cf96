package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfchat-backend/internal/bootstrap"
	"pdfchat-backend/internal/shared/config"
	"pdfchat-backend/internal/shared/server"
	"pdfchat-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Configure(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		telemetry.Warn("tracing.disabled", map[string]any{"error": err})
		shutdownTracing = func(context.Context) error { return nil }
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{
			"addr":         srv.Addr,
			"env":          cfg.Env,
			"llm_provider": cfg.LLM.Provider,
			"llm_model":    cfg.LLM.Model,
			"object_store": cfg.ObjectStoreType,
			"database":     app.DB != nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			telemetry.Error("server.error", map[string]any{"error": err})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("server.shutdown", map[string]any{"error": err})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		telemetry.Warn("tracing.shutdown", map[string]any{"error": err})
	}
	telemetry.Info("server.stopped", nil)
}
