package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postdeck/pkg/cache"
	"postdeck/pkg/config"
	"postdeck/pkg/database"
	"postdeck/pkg/jwt"
	"postdeck/pkg/logger"
	"postdeck/pkg/middleware"
	"postdeck/pkg/platform"
	"postdeck/pkg/queue"
	"postdeck/pkg/ratelimit"
	"postdeck/pkg/roles"
	"postdeck/pkg/s3"
	contentHTTP "postdeck/services/content/internal/controller/http"
	"postdeck/services/content/internal/repo/persistent"
	"postdeck/services/content/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "postdeck/services/content/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	registry    *platform.Registry
	limiter     *ratelimit.Tracker
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	// Published-event notifications are best effort. The publish path works
	// without the broker.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, continuing without event notifications: %v", err)
		queueClient = nil
	}

	limiter := ratelimit.New()

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		registry:    platform.DefaultRegistry(cfg, limiter, log),
		limiter:     limiter,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	postRepo := persistent.NewPostRepository(a.db)

	// Initialize use cases
	contentUseCase := usecase.NewContentUseCase(
		postRepo,
		a.registry,
		a.limiter,
		a.s3Client,
		a.queueClient,
		a.log,
	)

	// Initialize HTTP handlers
	contentHandler := contentHTTP.NewContentHandler(contentUseCase, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Cron endpoint, authenticated by shared secret rather than JWT
	r.POST("/cron/publish-due", middleware.SharedSecretAuth(a.cfg.CronSecret), contentHandler.PublishDue)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
	{
		api.GET("/platforms/limits", contentHandler.PlatformLimits)

		org := api.Group("/orgs/:org_id")
		{
			org.POST("/posts", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.CreatePost)
			org.GET("/posts", middleware.RequireOrgRole(postRepo, roles.RoleViewer), contentHandler.ListPosts)
			org.GET("/posts/:post_id", middleware.RequireOrgRole(postRepo, roles.RoleViewer), contentHandler.GetPost)
			org.PUT("/posts/:post_id", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.UpdatePost)
			org.DELETE("/posts/:post_id", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.DeletePost)
			org.POST("/posts/:post_id/schedule", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.SchedulePost)
			org.POST("/posts/:post_id/unschedule", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.UnschedulePost)

			org.POST("/media", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.UploadMedia)
			org.GET("/media", middleware.RequireOrgRole(postRepo, roles.RoleViewer), contentHandler.ListMedia)
			org.DELETE("/media/:asset_id", middleware.RequireOrgRole(postRepo, roles.RoleEditor), contentHandler.DeleteMedia)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Content service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down content service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close queue connection
	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Content service exited")
	return nil
}
