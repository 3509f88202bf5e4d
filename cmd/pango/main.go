package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/pango/internal/adapter/fsm"
	"github.com/neomorfeo/pango/internal/adapter/logging"
	"github.com/neomorfeo/pango/internal/adapter/sqlite"
	"github.com/neomorfeo/pango/internal/app"
	"github.com/neomorfeo/pango/internal/config"
	"github.com/neomorfeo/pango/internal/seed"

	handler "github.com/neomorfeo/pango/internal/adapter/http"
	pangootel "github.com/neomorfeo/pango/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/pango/internal/adapter/river"
)

const (
	serviceName    = "pango"
	serviceVersion = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pango stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLogs, err := logging.New(os.Stderr, cfg.Log, cfg.Fluent)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closeLogs()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	providers, err := pangootel.Setup(ctx, pangootel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := pangootel.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	store, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()

	queue, err := riveradapter.Setup(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	// Cancelling Start's context would abort running jobs; shutdown goes through Stop.
	if err := queue.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := queue.Stop(stopCtx); err != nil {
			slog.Error("river stop", "error", err)
		}
	}()

	listings := pangootel.NewTracingListingRepository(store.Listings())
	favorites := pangootel.NewTracingFavoriteRepository(store.Favorites())
	conversations := pangootel.NewTracingConversationRepository(store.Conversations())
	publisher, err := pangootel.NewTracingPublisher(riveradapter.NewPublisher(queue))
	if err != nil {
		return fmt.Errorf("publisher metrics: %w", err)
	}
	validator := fsm.New()

	if cfg.SeedListings {
		if _, err := seed.Load(ctx, listings); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// --- Application ---
	hub := app.NewFavoritesHub(16)
	messages := app.NewMessagesHub(16)
	services := handler.Services{
		Listings:      app.NewListingService(listings, publisher, validator),
		Favorites:     app.NewFavoriteService(favorites, listings, publisher, hub),
		Conversations: app.NewConversationService(conversations, listings, publisher, messages),
		Lifecycle:     validator,
	}

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, logger, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("pango listening", "addr", srv.Addr, "docs", "http://localhost:"+cfg.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Open event streams do not end on their own.
		slog.Warn("forcing server close", "error", err)
		srv.Close()
	}

	slog.Info("stopped")
	return nil
}

func newRouter(cfg config.Config, logger *slog.Logger, services handler.Services) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID", "X-User-Name"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("Pango", serviceVersion))
	handler.Register(api, services)

	return router
}
