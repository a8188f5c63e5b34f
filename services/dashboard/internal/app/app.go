package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postdeck/pkg/config"
	"postdeck/pkg/jwt"
	"postdeck/pkg/logger"
	"postdeck/pkg/memcache"
	"postdeck/pkg/middleware"
	"postdeck/pkg/queue"
	"postdeck/pkg/roles"
	dashboardHTTP "postdeck/services/dashboard/internal/controller/http"
	"postdeck/services/dashboard/internal/repo/persistent"
	"postdeck/services/dashboard/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Overview responses are cached in process. Policy and sizing come from
	// the environment.
	policy, err := memcache.ParsePolicy(cfg.DashboardCachePolicy)
	if err != nil {
		log.Warn("Unknown cache policy %q, falling back to lru", cfg.DashboardCachePolicy)
		policy = memcache.PolicyLRU
	}
	overviewCache := memcache.New(policy, cfg.DashboardCacheCapacity, time.Duration(cfg.DashboardCacheTTLSecs)*time.Second)

	// The broker is only polled for queue depth on the health endpoint. The
	// dashboard runs without it.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, continuing without queue depth reporting: %v", err)
		queueClient = nil
	}
	var queueInspector usecase.QueueInspector
	if queueClient != nil {
		queueInspector = queueClient
	}

	// Initialize repositories
	dashboardRepo := persistent.NewDashboardRepository(db)

	// Initialize use cases
	dashboardUseCase := usecase.NewDashboardUseCase(dashboardRepo, overviewCache, redisClient, queueInspector, cfg.ContentServiceURL, log)

	// Initialize HTTP handlers
	dashboardHandler := dashboardHTTP.NewDashboardHandler(dashboardUseCase, log)

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

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.GET("/system/health", middleware.RequireStaff(), dashboardHandler.SystemHealth)

		dashboard := api.Group("/orgs/:org_id/dashboard")
		{
			dashboard.GET("/overview", middleware.RequireOrgRole(dashboardRepo, roles.RoleViewer), dashboardHandler.Overview)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Dashboard service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down dashboard service...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close queue connection
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Dashboard service exited")
}
