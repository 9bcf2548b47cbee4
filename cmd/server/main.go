package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/embodywellness/member-api/internal/auth"
	"github.com/embodywellness/member-api/internal/config"
	"github.com/embodywellness/member-api/internal/content"
	"github.com/embodywellness/member-api/internal/dashboard"
	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/handlers"
	"github.com/embodywellness/member-api/internal/logger"
	"github.com/embodywellness/member-api/internal/metrics"
	"github.com/embodywellness/member-api/internal/middleware"
	"github.com/embodywellness/member-api/internal/services/identity"
	"github.com/embodywellness/member-api/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("demo_mode", cfg.DemoMode),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "member-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database and apply migrations
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	zapLogger.Info("migrations_applied")

	// Connect to Redis for rate limiting
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Metrics registry
	registry := prometheus.NewRegistry()
	stats := metrics.NewCollector(registry)

	// Repositories
	profileRepo := database.NewProfileRepository(db)
	checkInRepo := database.NewCheckInRepository(db)
	messageRepo := database.NewMessageRepository(db)

	// Identity provider: hosted service or in-process demo
	provider, verifier := buildIdentity(cfg, zapLogger)

	sessionStore := identity.NewStore(provider)
	resolver := auth.NewResolver(profileRepo, zapLogger, stats)
	orchestrator := auth.NewOrchestrator(sessionStore, resolver, zapLogger, stats)

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	go orchestrator.Run(runCtx)

	// Services
	adminService := dashboard.NewAdminService(profileRepo, checkInRepo)
	memberService := dashboard.NewMemberService(checkInRepo, stats)
	blogLibrary, err := content.NewLibrary()
	if err != nil {
		zapLogger.Fatal("failed_to_load_blog_library", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(orchestrator, zapLogger)
	checkInHandler := handlers.NewCheckInHandler(memberService)
	messageHandler := handlers.NewMessageHandler(messageRepo)
	adminHandler := handlers.NewAdminHandler(adminService)
	blogHandler := handlers.NewBlogHandler(blogLibrary)
	healthChecker := handlers.NewHealthChecker(db, redisLimiter)

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("member-api"))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Rate limit middleware, applied selectively to the auth routes
	rateLimitMW, err := middleware.RateLimit(redisLimiter.Client(), cfg.AuthRateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	authMW := middleware.Auth(verifier, resolver, zapLogger)

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler(registry)).Methods("GET")

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	// Auth routes: sign-up/sign-in/sign-out are public but rate limited,
	// /me additionally requires a verified token
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(rateLimitMW)
	authHandler.RegisterRoutes(authRouter, authMW)

	// Member routes (protected)
	memberRouter := apiRouter.PathPrefix("").Subrouter()
	memberRouter.Use(authMW)
	checkInHandler.RegisterRoutes(memberRouter)
	messageHandler.RegisterRoutes(memberRouter)

	// Admin routes (protected + admin flag)
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(authMW)
	adminRouter.Use(middleware.RequireAdmin)
	adminHandler.RegisterRoutes(adminRouter)

	// Blog routes (public, read-only)
	blogRouter := apiRouter.PathPrefix("/blog").Subrouter()
	blogHandler.RegisterRoutes(blogRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	runCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// buildIdentity selects the auth provider implementation from config.
// Demo mode runs everything against an in-process provider so the stack
// can come up without the hosted auth service.
func buildIdentity(cfg *config.Config, zapLogger *zap.Logger) (identity.Provider, identity.TokenVerifier) {
	if cfg.DemoMode {
		zapLogger.Warn("demo_mode_enabled_using_in_memory_identity")
		mem := identity.NewMemoryProvider()
		return mem, mem
	}

	client := identity.NewClient(cfg.AuthServiceURL, cfg.AuthAnonKey)
	jwksManager := identity.NewJWKSManager(cfg.AuthJWKSURL)
	verifier := identity.NewJWTVerifier(jwksManager, cfg.AuthIssuer)
	zapLogger.Info("identity_provider_configured",
		zap.String("service_url", cfg.AuthServiceURL),
		zap.String("jwks_url", cfg.AuthJWKSURL),
	)
	return client, verifier
}
