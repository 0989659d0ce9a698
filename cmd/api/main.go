// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/drivepixel/website-backend/internal/activity"
	"github.com/drivepixel/website-backend/internal/admin"
	"github.com/drivepixel/website-backend/internal/auth"
	"github.com/drivepixel/website-backend/internal/config"
	"github.com/drivepixel/website-backend/internal/content"
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/health"
	"github.com/drivepixel/website-backend/internal/lead"
	"github.com/drivepixel/website-backend/internal/middleware"
	"github.com/drivepixel/website-backend/internal/server"
	"github.com/drivepixel/website-backend/internal/settings"
	"github.com/drivepixel/website-backend/internal/user"
)

func main() {
	//nolint:errcheck // .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Error("failed to init telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		//nolint:errcheck // best-effort flush on shutdown
		_ = telemetry.Shutdown(context.Background())
	}()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close() //nolint:errcheck

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close() //nolint:errcheck

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		logger.Error("failed to init jwt manager", "error", err)
		os.Exit(1)
	}

	// Repositories and services.
	userRepo := user.NewRepository(db.DB)
	userService := user.NewService(userRepo)

	authRepo := auth.NewRepository(db.DB)
	authService := auth.NewService(
		authRepo,
		jwtManager,
		user.NewAuthProvider(userRepo),
		rdb.Client,
		cfg.JWT.AccessTokenExpire,
	)
	go authService.ReapExpiredTokens(ctx, time.Hour, logger)

	activityRepo := activity.NewRepository(db.DB)
	recorder := activity.NewRecorder(activityRepo, logger)

	leadRepo := lead.NewRepository(db.DB)

	settingsRepo := settings.NewRepository(db.DB)

	serviceStore := content.NewStore[content.Service](db.DB, content.Services)
	portfolioStore := content.NewStore[content.PortfolioItem](db.DB, content.Portfolio)
	blogStore := content.NewStore[content.BlogPost](db.DB, content.BlogPosts)
	testimonialStore := content.NewStore[content.Testimonial](db.DB, content.Testimonials)
	heroStore := content.NewStore[content.HeroText](db.DB, content.HeroTexts)

	// Handlers.
	healthHandler := health.NewHandler(db, rdb)
	authHandler := auth.NewHandler(authService, logger)
	userHandler := user.NewHandler(userService, recorder, logger)
	leadHandler := lead.NewHandler(leadRepo, recorder, logger)
	settingsHandler := settings.NewHandler(settingsRepo, recorder, logger)
	activityHandler := activity.NewHandler(activityRepo, logger)
	adminHandler := admin.NewHandler(db, leadRepo, activityRepo, rdb, logger)

	serviceHandler := content.NewHandler(serviceStore, recorder, logger)
	portfolioHandler := content.NewHandler(portfolioStore, recorder, logger)
	blogHandler := content.NewHandler(blogStore, recorder, logger)
	testimonialHandler := content.NewHandler(testimonialStore, recorder, logger)
	heroHandler := content.NewHandler(heroStore, recorder, logger)

	// The auth service verifies tokens so the logout blacklist is
	// consulted on every gated request.
	gate := middleware.NewGate(authService, userService)

	globalLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
	})
	authLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(10, 5),
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	r := srv.Router()
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(telemetry.Tracer))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))

	healthHandler.RegisterRoutes(r)
	r.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(globalLimiter.Handler)

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Handler)
			authHandler.RegisterRoutes(r, gate.Authenticate)
		})

		// Public read surface.
		serviceHandler.RegisterPublicRoutes(r)
		portfolioHandler.RegisterPublicRoutes(r)
		blogHandler.RegisterPublicRoutes(r)
		testimonialHandler.RegisterPublicRoutes(r)
		heroHandler.RegisterPublicRoutes(r)
		settingsHandler.RegisterPublicRoutes(r)

		// Any signed-in account.
		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticate)
			userHandler.RegisterRoutes(r)
			leadHandler.RegisterRoutes(r)
		})

		// Administration.
		r.Route("/admin", func(r chi.Router) {
			r.Use(gate.Require(user.RoleAdmin))

			serviceHandler.RegisterAdminRoutes(r)
			portfolioHandler.RegisterAdminRoutes(r)
			blogHandler.RegisterAdminRoutes(r)
			testimonialHandler.RegisterAdminRoutes(r)
			heroHandler.RegisterAdminRoutes(r)
			settingsHandler.RegisterAdminRoutes(r)
			leadHandler.RegisterAdminRoutes(r)
			userHandler.RegisterAdminRoutes(r)
			activityHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info(
			"server starting",
			"address", cfg.Server.Address(),
			"environment", cfg.App.Environment,
		)
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, 2*time.Second); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
