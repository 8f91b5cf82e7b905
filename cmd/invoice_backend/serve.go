package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/handlers"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/config"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/repositories/database/pgsql"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/repositories/memory"
	"github.com/SochesdaThoeun/invoice-sys-sub000/pkg/database"
)

func newServeCmd() *cobra.Command {
	var runMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if runMigrate && cfg.StorageDriver == config.StorageDriverPostgres {
				if err := runMigrations(cfg, logger, func(m *migrate.Migrate) error { return m.Up() }); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&runMigrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

// openStore returns the transaction manager for the configured driver, a health
// check, and a cleanup func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.TransactionManager, handlers.HealthCheck, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using the in-memory store; data is lost on exit")
		return memory.New(), nil, func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewTransactionManager(pool), pool.Ping, func() { database.ClosePgxPool(pool) }, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	txManager, healthCheck, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	lim, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, services.NewServiceContainer(txManager), handlers.RouterOptions{
		Limiter:     lim,
		HealthCheck: healthCheck,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, failed := <-errCh:
		if failed {
			return fmt.Errorf("server failed to run: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
