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
	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/crm/internal/connector"
	crmHTTP "postdeck/services/crm/internal/controller/http"
	"postdeck/services/crm/internal/repo/persistent"
	"postdeck/services/crm/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	connectionRepo := persistent.NewConnectionRepository(db)

	// Initialize use cases
	crmUseCase := usecase.NewCRMUseCase(connectionRepo, connector.NewRESTDialer(), log)

	// Initialize HTTP handlers
	crmHandler := crmHTTP.NewCRMHandler(crmUseCase, log)

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
		crm := api.Group("/orgs/:org_id/crm")
		{
			crm.GET("/connections", middleware.RequireOrgRole(connectionRepo, roles.RoleViewer), crmHandler.ListConnections)
			crm.POST("/connections", middleware.RequireOrgRole(connectionRepo, roles.RoleAdmin), crmHandler.CreateConnection)
			crm.PUT("/connections/:connection_id", middleware.RequireOrgRole(connectionRepo, roles.RoleAdmin), crmHandler.UpdateConnection)
			crm.DELETE("/connections/:connection_id", middleware.RequireOrgRole(connectionRepo, roles.RoleAdmin), crmHandler.DeleteConnection)

			crm.POST("/sync-contacts", middleware.RequireOrgRole(connectionRepo, roles.RoleEditor), crmHandler.SyncContacts)
			crm.POST("/push-contact", middleware.RequireOrgRole(connectionRepo, roles.RoleEditor), crmHandler.PushContact)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("CRM service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down CRM service...")

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

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("CRM service exited")
}
