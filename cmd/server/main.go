package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arturoeanton/jal-rakshak/internal/adapter/ai"
	"github.com/arturoeanton/jal-rakshak/internal/adapter/auth"
	"github.com/arturoeanton/jal-rakshak/internal/adapter/firebase"
	"github.com/arturoeanton/jal-rakshak/internal/adapter/store"
	"github.com/arturoeanton/jal-rakshak/internal/handler"
	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/metrics"
	"github.com/arturoeanton/jal-rakshak/internal/port"
	"github.com/arturoeanton/jal-rakshak/internal/service"
	"github.com/arturoeanton/jal-rakshak/pkg/config"
)

const version = "1.0.0"

// profileBackend is what either store driver provides.
type profileBackend interface {
	port.ProfileStore
	port.AuditWriter
	port.AuditReader
}

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("🚀 Starting Jal-Rakshak",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"store", cfg.StoreDriver,
		"model", cfg.OpenRouterModel,
	)

	flush, err := logging.InitSentry(cfg.SentryDSN, cfg.AppEnv, version)
	if err != nil {
		slog.Warn("sentry disabled", "error", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Firebase ─────────────────────────────────────────────────────────
	fb, err := firebase.Open(ctx, firebase.Options{
		CredentialsFile: cfg.FirebaseCredentialsFile,
		ProjectID:       cfg.FirebaseProjectID,
	}, cfg.StoreDriver == config.StoreFirestore)
	if err != nil {
		return err
	}

	// ── Profile store ────────────────────────────────────────────────────
	backend, err := openStore(ctx, cfg, fb)
	if err != nil {
		return err
	}
	defer backend.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	identity := auth.NewFirebaseProvider(fb.Auth)
	completion := ai.NewOpenRouterProvider(ai.OpenRouterConfig{
		BaseURL:   cfg.OpenRouterBaseURL,
		Model:     cfg.OpenRouterModel,
		APIKey:    cfg.OpenRouterAPIKey,
		SiteURL:   cfg.SiteURL,
		SiteTitle: cfg.SiteTitle,
	}, &http.Client{})

	var recorder metrics.Recorder = metrics.Nop{}
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector()
		recorder = collector
	}

	// ── Services ─────────────────────────────────────────────────────────
	authService := service.NewAuthService(identity, backend, recorder)
	chatService := service.NewChatService(completion, recorder)

	// ── Fiber App ────────────────────────────────────────────────────────
	deps := handler.Deps{
		AppName:     cfg.AppName,
		Auth:        authService,
		Chat:        chatService,
		Verifier:    identity,
		Store:       backend,
		AuditReader: backend,
		Metrics:     collector,
		AccessLog:   true,
	}
	if cfg.AuditEnabled {
		deps.Audit = backend
	}
	app := handler.NewRouter(deps)

	// ── Start ────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		slog.Info("🌐 Fiber listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("🛑 Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, fb *firebase.Clients) (profileBackend, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return store.NewFirestoreStore(fb.Firestore), nil
	}
}
