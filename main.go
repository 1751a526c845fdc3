package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/app/service"
	"complaint-tracker-backend/config"
	"complaint-tracker-backend/database"
	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/media"
	"complaint-tracker-backend/middleware"
	"complaint-tracker-backend/routes"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("❌ Perintah gagal")
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "complaint-tracker",
		Short:         "Hostel complaint tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Config & logger dimuat sekali sebelum subcommand apa pun.
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply PostgreSQL schema migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := database.InitDB(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close(context.Background())
				return database.Migrate(db.Postgres)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create initial warden and staff accounts",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := database.InitDB(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close(context.Background())
				users := repository.NewUserRepository(db.Postgres)
				return database.SeedUsers(cmd.Context(), users, database.DefaultSeedAccounts, cfg.App.SeedPassword)
			},
		},
	)
	return root
}

// serve merakit seluruh dependency lalu menjalankan server sampai ctx dibatalkan.
func serve(ctx context.Context, cfg *config.Config) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// =================================================================
	// INIT DB (POSTGRES + MONGODB + REDIS)
	// =================================================================
	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	if err := database.Migrate(db.Postgres); err != nil {
		return err
	}

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(db.Postgres)
	complaintRepo := repository.NewComplaintRepository(db.Postgres)
	feedbackRepo := repository.NewFeedbackRepository(db.Postgres)
	eventRepo := repository.NewEventRepository(db.Mongo)
	reportRepo := repository.NewReportRepository(db.Mongo)
	publisher := repository.NewEventPublisher(db.Redis, cfg.Redis.Channel)
	blocklist := repository.NewTokenBlocklist(db.Redis)

	uploader, err := media.NewUploader(cfg.Cloudinary)
	if err != nil {
		return err
	}

	// =================================================================
	// SERVICES
	// =================================================================
	policy, err := service.NewPolicy()
	if err != nil {
		return err
	}
	tokens := utils.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authService := service.NewAuthService(userRepo, blocklist, tokens)
	complaintService := service.NewComplaintService(complaintRepo, eventRepo, publisher, uploader, policy)
	feedbackService := service.NewFeedbackService(complaintRepo, feedbackRepo, eventRepo, publisher, policy)
	reportService := service.NewReportService(reportRepo, policy)

	// =================================================================
	// ROUTER
	// =================================================================
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go cleanupLimiter(ctx, limiter)

	health := make(map[string]routes.HealthCheck)
	for name, check := range db.HealthChecks() {
		health[name] = check
	}

	engine := routes.NewRouter(routes.Dependencies{
		Config:     cfg,
		Tokens:     tokens,
		Blocklist:  blocklist,
		Limiter:    limiter,
		Auth:       authService,
		Complaints: complaintService,
		Feedback:   feedbackService,
		Reports:    reportService,
		Health:     health,
	})

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(engine)

	// =================================================================
	// START SERVER
	// =================================================================
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Menerima sinyal berhenti, shutdown server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cleanupLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(10 * time.Minute)
		}
	}
}
