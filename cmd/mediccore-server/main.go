package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mediccore/mediccore/internal/config"
	"github.com/mediccore/mediccore/internal/domain/billing"
	"github.com/mediccore/mediccore/internal/domain/cashier"
	"github.com/mediccore/mediccore/internal/domain/catalog"
	"github.com/mediccore/mediccore/internal/domain/identity"
	"github.com/mediccore/mediccore/internal/domain/registration"
	"github.com/mediccore/mediccore/internal/domain/reporting"
	"github.com/mediccore/mediccore/internal/domain/scheduling"
	"github.com/mediccore/mediccore/internal/domain/users"
	"github.com/mediccore/mediccore/internal/platform/auth"
	"github.com/mediccore/mediccore/internal/platform/db"
	"github.com/mediccore/mediccore/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediccore-server",
		Short: "MedicCore diagnostic center API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories
	patientRepo := identity.NewRepoPG(pool)
	studyRepo := catalog.NewRepoPG(pool)
	citaRepo := scheduling.NewRepoPG(pool)
	shiftRepo := cashier.NewRepoPG(pool)
	invoiceRepo := billing.NewRepoPG(pool)
	userRepo := users.NewRepoPG(pool)
	statsRepo := reporting.NewRepoPG(pool)

	// Services
	patientSvc := identity.NewService(patientRepo)
	studySvc := catalog.NewService(studyRepo)
	citaSvc := scheduling.NewService(citaRepo, studyRepo)
	shiftSvc := cashier.NewService(shiftRepo)
	invoiceSvc := billing.NewService(invoiceRepo, shiftRepo)
	userSvc := users.NewService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL())

	// Ledger poller keeps the cash register totals fresh for the dashboard.
	ledger := billing.NewLedger(invoiceRepo, shiftRepo, logger)
	go ledger.Run(ctx, cfg.LedgerRefresh())

	statsSvc := reporting.NewService(statsRepo, ledger)

	wizardStore := registration.NewStore(cfg.WizardTTL())
	registrationSvc := registration.NewService(wizardStore, patientSvc, studyRepo,
		citaSvc, invoiceSvc, shiftRepo, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	// Login is the only unauthenticated endpoint.
	userHandler := users.NewHandler(userSvc)
	userHandler.RegisterPublicRoutes(apiV1)

	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.Middleware([]byte(cfg.JWTSecret)))
	}

	userHandler.RegisterRoutes(apiV1)
	identity.NewHandler(patientSvc).RegisterRoutes(apiV1)
	catalog.NewHandler(studySvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(citaSvc).RegisterRoutes(apiV1)
	cashier.NewHandler(shiftSvc).RegisterRoutes(apiV1)
	billing.NewHandler(invoiceSvc, ledger).RegisterRoutes(apiV1)
	registration.NewHandler(registrationSvc).RegisterRoutes(apiV1)
	reporting.NewHandler(statsSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
