// Package app wires configuration, storage, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/panshun/climbstory-backend/internal/adapter/postgres"
	"github.com/panshun/climbstory-backend/internal/adapter/postgres/biography"
	"github.com/panshun/climbstory-backend/internal/adapter/postgres/promptstate"
	"github.com/panshun/climbstory-backend/internal/auth"
	"github.com/panshun/climbstory-backend/internal/config"
	"github.com/panshun/climbstory-backend/internal/domain"
	"github.com/panshun/climbstory-backend/internal/service/prompt"
	"github.com/panshun/climbstory-backend/internal/transport/middleware"
	"github.com/panshun/climbstory-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the prompt scheduling service, and serves HTTP until
// the context is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	promptCfg, err := promptConfig(cfg.Prompts)
	if err != nil {
		return err
	}

	promptSvc, err := prompt.NewService(
		logger,
		biography.New(pool),
		promptstate.New(pool),
		postgres.NewTxManager(pool),
		domain.DefaultStoryCatalog(),
		promptCfg,
	)
	if err != nil {
		return fmt.Errorf("build prompt service: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	promptsHandler := rest.NewPromptsHandler(promptSvc, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(
		promptsHandler,
		healthHandler,
		middleware.Auth(jwtManager),
		rateLimiter.Limit(cfg.Server.RateLimitPerMinute),
	)
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// promptConfig converts the flat configuration values into service settings,
// validating the category list against the known categories.
func promptConfig(cfg config.PromptsConfig) (prompt.Config, error) {
	order := make([]domain.FieldCategory, 0, len(cfg.CategoryOrderList))
	for _, raw := range cfg.CategoryOrderList {
		category := domain.FieldCategory(raw)
		if !category.IsValid() {
			return prompt.Config{}, fmt.Errorf("unknown category %q in prompts.category_order", raw)
		}
		order = append(order, category)
	}

	return prompt.Config{
		MinGapBetweenPrompts: time.Duration(cfg.MinHoursBetweenPrompts) * time.Hour,
		MaxPromptsPerWeek:    cfg.MaxPromptsPerWeek,
		CooldownAfterDismiss: time.Duration(cfg.CooldownAfterDismissDays) * 24 * time.Hour,
		MaxDismissCount:      cfg.MaxDismissCount,
		EasyFields:           cfg.EasyFieldIDs,
		CategoryOrder:        order,
	}, nil
}
