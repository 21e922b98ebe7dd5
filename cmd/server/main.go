package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/chefvoice/internal/api"
	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/logger"
	"github.com/socialchef/chefvoice/internal/metrics"
	"github.com/socialchef/chefvoice/internal/sentry"
	"github.com/socialchef/chefvoice/internal/services/recipe"
	"github.com/socialchef/chefvoice/internal/services/transcription"
	"github.com/socialchef/chefvoice/internal/session"
	"github.com/socialchef/chefvoice/internal/store"
	"github.com/socialchef/chefvoice/internal/telemetry"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing credentials stop the process here, before any request.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Env:            cfg.Env,
		Endpoint:       cfg.OtelExporterOTLPEndpoint,
		Headers:        telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders),
	})
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Set as default so slog.Info() uses our handler
	slog.SetDefault(logger.New(cfg.Env))

	recipes, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open recipe store: %v", err)
	}
	defer recipes.Close()

	generator := recipe.NewGenerator(recipe.NewProvider(cfg))
	transcriber := transcription.NewProviderAdapter(transcription.NewProvider(cfg), cfg.MaxAudioBytes)

	sess := session.New(transcriber, generator, recipes, session.Options{
		TranscriptionTimeout: cfg.Transcription.Timeout,
		GenerationTimeout:    cfg.Generation.Timeout,
	})

	router := api.NewRouter(cfg.ServiceName, api.NewServer(cfg, sess))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"env", cfg.Env,
			"generation_provider", generator.Provider().Name(),
			"transcription_provider", transcriber.Provider().Name(),
			"store", cfg.Store.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Warn("Telemetry shutdown failed", "error", err)
	}
}
