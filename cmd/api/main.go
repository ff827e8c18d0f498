// @title           Feedback Board API
// @version         1.0
// @description     피드백 보드 API
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "feedback-board-api/docs" // Swagger docs import

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/client"
	"feedback-board-api/internal/config"
	"feedback-board-api/internal/database"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/job"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/realtime"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/router"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Feedback Board API",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	// Initialize database
	db, err := database.New(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		logger.Info("Database migrations completed")
	}

	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	database.StartDBStatsCollector(ctx, db, m, 15*time.Second)

	// Initialize redis (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedis(ctx, cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	// Read view cache
	store, err := newViewStore(cfg.Cache, redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize view cache", zap.Error(err))
	}
	views := cache.NewViews(store, m, logger)

	// Realtime fan-out: through redis when several instances share a cache
	hub := realtime.NewHub(m, logger)
	go hub.Run(ctx)

	var publisher fanout.Publisher = hub
	if redisClient != nil {
		relay := realtime.NewRedisRelay(redisClient, hub, logger)
		go relay.Run(ctx)
		publisher = relay
	}
	fan := fanout.New(views, publisher, logger, cfg.Cache.InvalidateTimeout)

	sessions := newSessionResolver(cfg.Auth, logger, m)

	// Initialize S3 client
	var logos client.LogoStorage
	if cfg.S3.Enabled() {
		s3Client, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, logo uploads disabled", zap.Error(err))
		} else {
			logos = s3Client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, logo uploads disabled")
	}

	// Initialize notification client
	notifications := client.NewNoOpNotificationClient()
	if cfg.Notification.BaseURL != "" {
		notifications = client.NewNotificationClient(
			cfg.Notification.BaseURL,
			cfg.Notification.APIKey,
			cfg.Notification.Timeout,
			logger,
			m,
		)
		logger.Info("Notification client initialized", zap.String("url", cfg.Notification.BaseURL))
	}

	scheduler, err := newScheduler(cfg.Jobs, db, m, logger)
	if err != nil {
		logger.Fatal("Failed to schedule background jobs", zap.Error(err))
	}
	scheduler.Start()

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		PublicURL:      cfg.Server.PublicURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Sessions:       sessions,
		Views:          views,
		Fanout:         fan,
		Hub:            hub,
		Logos:          logos,
		Notifications:  notifications,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Feedback Board API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%d%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	stop()

	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newViewStore(cfg config.CacheConfig, redisClient *redis.Client) (cache.Store, error) {
	if cfg.Backend == "redis" {
		return cache.NewRedisStore(redisClient, cfg.TTL), nil
	}
	return cache.NewMemoryStore(cache.MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
	})
}

func newSessionResolver(cfg config.AuthConfig, logger *zap.Logger, m *metrics.Metrics) gate.SessionResolver {
	if cfg.Mode == "remote" {
		logger.Info("Resolving sessions through identity provider", zap.String("url", cfg.IdentityURL))
		return client.NewIdentityClient(cfg.IdentityURL, cfg.SessionCookie, cfg.Timeout, logger, m)
	}
	return client.NewJWTSessionVerifier(cfg.JWTSecret, cfg.SessionCookie)
}

func newScheduler(cfg config.JobsConfig, db *gorm.DB, m *metrics.Metrics, logger *zap.Logger) (*job.Scheduler, error) {
	scheduler := job.NewScheduler(logger)

	audit := job.NewCounterAuditJob(repository.NewFeatureRequestRepository(db), m, logger)
	if err := scheduler.Add("counter_audit", cfg.CounterAuditSchedule, audit.Run); err != nil {
		return nil, err
	}

	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collect := func() { collector.Collect(context.Background()) }
	if err := scheduler.Add("business_metrics", cfg.BusinessMetricsSchedule, collect); err != nil {
		return nil, err
	}
	collect()

	return scheduler, nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
