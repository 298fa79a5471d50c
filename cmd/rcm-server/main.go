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

	"github.com/rcmstack/rcm/internal/config"
	"github.com/rcmstack/rcm/internal/domain/claims"
	"github.com/rcmstack/rcm/internal/domain/clinicaldocs"
	"github.com/rcmstack/rcm/internal/domain/coding"
	"github.com/rcmstack/rcm/internal/domain/dashboard"
	"github.com/rcmstack/rcm/internal/domain/eligibility"
	"github.com/rcmstack/rcm/internal/domain/identity"
	"github.com/rcmstack/rcm/internal/domain/priorauth"
	"github.com/rcmstack/rcm/internal/domain/remittance"
	"github.com/rcmstack/rcm/internal/platform/ai"
	"github.com/rcmstack/rcm/internal/platform/auth"
	"github.com/rcmstack/rcm/internal/platform/db"
	"github.com/rcmstack/rcm/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rcm-server",
		Short: "Revenue cycle management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the RCM API server",
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, patients and payers",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			return runSeed(ctx, pool)
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewIssuer(cfg.SigningSecret(), time.Duration(cfg.TokenTTLHours)*time.Hour)

	geminiTimeout := time.Duration(cfg.GeminiTimeoutSeconds) * time.Second
	gateway := ai.NewGateway(ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, geminiTimeout), logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "10M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	api := e.Group("/api")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Identity: register and login stay public, the rest requires a token.
	authPublic := api.Group("/auth")
	authPrivate := api.Group("/auth", auth.JWT(issuer))
	userRepo := identity.NewUserRepo(pool)
	identitySvc := identity.NewService(userRepo)
	identityHandler := identity.NewHandler(identitySvc, issuer)
	identityHandler.RegisterRoutes(authPublic, authPrivate)

	// Eligibility verification
	patientRepo := eligibility.NewPatientRepo(pool)
	providerRepo := eligibility.NewProviderRepo(pool)
	checkRepo := eligibility.NewCheckRepo(pool)
	eligSvc := eligibility.NewService(patientRepo, providerRepo, checkRepo, gateway)
	eligHandler := eligibility.NewHandler(eligSvc)
	eligHandler.RegisterRoutes(api.Group("/eligibility", auth.JWT(issuer)))

	// Prior authorization
	authRepo := priorauth.NewRepo(pool)
	paSvc := priorauth.NewService(authRepo, gateway)
	paHandler := priorauth.NewHandler(paSvc)
	paHandler.RegisterRoutes(api.Group("/prior-auth", auth.JWT(issuer)))

	// Claims processing
	claimRepo := claims.NewRepo(pool)
	claimSvc := claims.NewService(claimRepo, gateway)
	claimHandler := claims.NewHandler(claimSvc)
	claimHandler.RegisterRoutes(api.Group("/claims", auth.JWT(issuer)))

	// Clinical documentation
	docRepo := clinicaldocs.NewDocumentRepo()
	docSvc := clinicaldocs.NewService(docRepo, gateway)
	docHandler := clinicaldocs.NewHandler(docSvc)
	docHandler.RegisterRoutes(api.Group("/clinical-docs", auth.JWT(issuer)))

	// Medical coding
	sessionRepo := coding.NewSessionRepo()
	codingSvc := coding.NewService(sessionRepo, gateway)
	codingHandler := coding.NewHandler(codingSvc)
	codingHandler.RegisterRoutes(api.Group("/medical-coding", auth.JWT(issuer)))

	// Remittance and payment posting
	paymentRepo := remittance.NewPaymentRepo()
	reconRepo := remittance.NewSessionRepo()
	remitSvc := remittance.NewService(paymentRepo, reconRepo, gateway)
	remitHandler := remittance.NewHandler(remitSvc)
	remitHandler.RegisterRoutes(api.Group("/remittance", auth.JWT(issuer)))

	// Dashboard aggregates across claims, prior auth and eligibility.
	dashSvc := dashboard.NewService(claimRepo, authRepo, checkRepo)
	dashHandler := dashboard.NewHandler(dashSvc)
	dashHandler.RegisterRoutes(api.Group("/dashboard", auth.JWT(issuer)))

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	return nil
}
