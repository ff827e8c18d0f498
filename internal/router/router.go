package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/client"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/handler"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/middleware"
	"feedback-board-api/internal/realtime"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/service"
)

const serviceName = "feedback-board-api"

// Config holds router configuration
type Config struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	BasePath       string
	PublicURL      string
	AllowedOrigins []string

	Sessions gate.SessionResolver
	Views    *cache.Views
	Fanout   gate.Applier
	Hub      *realtime.Hub

	Logos         client.LogoStorage
	Notifications client.NotificationClient
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := handler.RegisterValidators(); err != nil {
		logger.Error("Failed to register request validators", zap.Error(err))
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, cfg.BasePath))

	// Prometheus metrics endpoint, at the root and under the base path
	metricsHandler := gin.WrapH(metricsHTTPHandler(cfg.Gatherer))
	r.GET("/metrics", metricsHandler)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		r.GET(cfg.BasePath+"/metrics", metricsHandler)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName})
			return
		}
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
	})

	// Initialize repositories
	boardRepo := repository.NewBoardRepository(cfg.DB)
	requestRepo := repository.NewFeatureRequestRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	upvoteRepo := repository.NewUpvoteRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	// Initialize services
	sanitizer := service.NewSanitizer()
	boardService := service.NewBoardService(boardRepo, cfg.Logos, sanitizer, cfg.Metrics, logger)
	requestService := service.NewFeatureRequestService(requestRepo, cfg.Notifications, sanitizer, cfg.Metrics, logger)
	commentService := service.NewCommentService(commentRepo, cfg.Notifications, sanitizer, cfg.Metrics, logger)
	upvoteService := service.NewUpvoteService(upvoteRepo, cfg.Metrics, logger)
	dashboardService := service.NewDashboardService(requestRepo)
	feedService := service.NewFeedService(requestRepo)

	g := gate.New(gate.Config{
		Sessions: cfg.Sessions,
		Users:    userRepo,
		Loaders:  lookup.StoreLoaders(boardRepo, requestRepo, commentRepo),
		Fanout:   cfg.Fanout,
		Metrics:  cfg.Metrics,
		Logger:   logger,
	})

	// Initialize handlers
	reader := handler.NewReader(boardService, requestService, cfg.Views)
	boardHandler := handler.NewBoardHandler(boardService, reader, g, cfg.Views, logger)
	requestHandler := handler.NewFeatureRequestHandler(requestService, reader, g, cfg.Views, logger)
	commentHandler := handler.NewCommentHandler(commentService, reader, g, cfg.Views, logger)
	upvoteHandler := handler.NewUpvoteHandler(upvoteService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, cfg.Views)
	feedHandler := handler.NewFeedHandler(feedService, reader, g, cfg.Views, cfg.PublicURL, cfg.BasePath, logger)

	api := r.Group(cfg.BasePath)

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ============================================================
	// Board routes
	// ============================================================
	boards := api.Group("/boards")
	{
		boards.POST("", g.RequireAuth(gate.Route{
			Name:    "board.create",
			Handler: boardHandler.CreateBoard,
		}))
		boards.GET("/:slug", boardHandler.GetBoard)
		boards.PATCH("/:slug", g.RequireOwnership(gate.Route{
			Name:      "board.update",
			Ownership: gate.BoardOwner("slug"),
			Handler:   boardHandler.UpdateBoard,
		}))
		boards.DELETE("/:slug", g.RequireOwnership(gate.Route{
			Name:      "board.delete",
			Ownership: gate.BoardOwner("slug"),
			Handler:   boardHandler.DeleteBoard,
		}))
		boards.POST("/:slug/logo/presigned-url", g.RequireOwnership(gate.Route{
			Name:      "board.logo_presign",
			Ownership: gate.BoardOwner("slug"),
			Handler:   boardHandler.RequestLogoUpload,
		}))
		boards.PUT("/:slug/logo", g.RequireOwnership(gate.Route{
			Name:      "board.logo_confirm",
			Ownership: gate.BoardOwner("slug"),
			Handler:   boardHandler.ConfirmLogo,
		}))
		boards.GET("/:slug/feed.rss", feedHandler.GetBoardFeed)

		// Feature requests on a board
		boards.GET("/:slug/requests", requestHandler.ListFeatureRequests)
		boards.POST("/:slug/requests", g.RequireOwnership(gate.Route{
			Name:      "feature_request.create",
			Ownership: gate.BoardContributor("slug"),
			Handler:   requestHandler.CreateFeatureRequest,
		}))
		boards.GET("/:slug/upvotes/me", g.RequireOwnership(gate.Route{
			Name:      "upvote.mine",
			Ownership: gate.BoardContributor("slug"),
			Handler:   upvoteHandler.GetMyUpvotes,
		}))

		if cfg.Hub != nil {
			eventsHandler := handler.NewEventsHandler(cfg.Hub, reader, g, cfg.AllowedOrigins, logger)
			boards.GET("/:slug/events", eventsHandler.StreamBoardEvents)
		}
	}

	// ============================================================
	// Feature request routes
	// ============================================================
	requests := api.Group("/requests")
	{
		requests.GET("/:id", requestHandler.GetFeatureRequest)
		requests.PATCH("/:id", g.RequireOwnership(gate.Route{
			Name:      "feature_request.update",
			Ownership: gate.FeatureRequestModifier("id"),
			Handler:   requestHandler.UpdateFeatureRequest,
		}))
		requests.DELETE("/:id", g.RequireOwnership(gate.Route{
			Name:      "feature_request.delete",
			Ownership: gate.FeatureRequestModifier("id"),
			Handler:   requestHandler.DeleteFeatureRequest,
		}))
		requests.PATCH("/:id/status", g.RequireOwnership(gate.Route{
			Name:      "feature_request.status",
			Ownership: gate.FeatureRequestBoardOwner("id"),
			Handler:   requestHandler.UpdateStatus,
		}))
		requests.POST("/:id/upvote", g.RequireOwnership(gate.Route{
			Name:      "upvote.toggle",
			Ownership: gate.FeatureRequestContributor("id"),
			Handler:   upvoteHandler.ToggleUpvote,
		}))
		requests.GET("/:id/comments", commentHandler.ListComments)
		requests.POST("/:id/comments", g.RequireOwnership(gate.Route{
			Name:      "comment.create",
			Ownership: gate.FeatureRequestContributor("id"),
			Handler:   commentHandler.CreateComment,
		}))
	}

	// ============================================================
	// Comment routes
	// ============================================================
	comments := api.Group("/comments")
	{
		comments.PATCH("/:id", g.RequireOwnership(gate.Route{
			Name:      "comment.update",
			Ownership: gate.CommentModifier("id"),
			Handler:   commentHandler.UpdateComment,
		}))
		comments.DELETE("/:id", g.RequireOwnership(gate.Route{
			Name:      "comment.delete",
			Ownership: gate.CommentModifier("id"),
			Handler:   commentHandler.DeleteComment,
		}))
	}

	// ============================================================
	// Current user routes
	// ============================================================
	api.GET("/users/me/boards", g.RequireAuth(gate.Route{
		Name:    "board.mine",
		Handler: boardHandler.GetMyBoards,
	}))
	api.GET("/dashboard/stats", g.RequireAuth(gate.Route{
		Name:    "dashboard.stats",
		Handler: dashboardHandler.GetStats,
	}))

	return r
}

func metricsHTTPHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
