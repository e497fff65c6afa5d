package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"report_card_portal/internal/apiclient"
	"report_card_portal/internal/config"
	"report_card_portal/internal/handler"
	"report_card_portal/internal/service"
	"report_card_portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const janitorInterval = 10 * time.Minute

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// the logger is configured from cfg, so this one goes to stderr as is
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found or error loading, relying on environment variables")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Session Store ---
	store, health, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.String("backend", cfg.SessionBackend), zap.Error(err))
	}
	defer closeStore()

	if purger, ok := store.(session.Purger); ok {
		go session.RunJanitor(ctx, purger, janitorInterval, logger)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// --- Initialize API Client ---
	client := apiclient.New(apiclient.Options{
		BaseURL:        cfg.APIBaseURL,
		FilesBaseURL:   cfg.FilesBaseURL,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
		Metrics:        apiclient.NewMetrics(registry),
	})

	// --- Initialize Services ---
	validator := service.NewValidator()
	services := handler.Services{
		Auth:        service.NewAuthService(client, validator),
		Users:       service.NewUserService(client, validator, cfg.MaxUploadBytes),
		ReportCards: service.NewReportCardService(client, validator, cfg.MaxUploadBytes),
		Dashboard:   service.NewDashboardService(client, client),
	}

	// --- Setup Gin Router ---
	router, err := handler.NewRouter(handler.RouterOptions{
		Logger:   logger,
		Sessions: session.NewManager(store, cfg.SessionTTL, logger),
		Cookie: session.CookieOptions{
			Name:   cfg.SessionCookieName,
			Secret: cfg.SessionSecret,
			MaxAge: cfg.SessionMaxAge,
			Secure: cfg.CSRFSecure,
		},
		Services:         services,
		CSRFEnabled:      cfg.CSRFEnabled,
		EnableUserExport: cfg.EnableUserExport,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		Gatherer:         registry,
		Health:           health,
	})
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("api_base_url", cfg.APIBaseURL),
			zap.String("session_backend", cfg.SessionBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// openSessionStore connects the configured session backend and returns it
// with a health probe and a cleanup function
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(context.Context) error, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			return nil, nil, nil, err
		}
		pool, err := config.ConnectDB(ctx, dbCfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := config.AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return session.NewPostgresStore(pool), pool.Ping, pool.Close, nil

	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return session.NewRedisStore(client), ping, func() { client.Close() }, nil
	}

	logger.Warn("Using in-memory sessions, they are lost on restart")
	return session.NewMemoryStore(), nil, func() {}, nil
}
