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
	growthHTTP "postdeck/services/growth/internal/controller/http"
	"postdeck/services/growth/internal/repo/persistent"
	"postdeck/services/growth/internal/usecase"

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
	growthRepo := persistent.NewGrowthRepository(db)

	// Initialize use cases
	growthUseCase := usecase.NewGrowthUseCase(growthRepo, log)

	// Initialize HTTP handlers
	growthHandler := growthHTTP.NewGrowthHandler(growthUseCase, log)

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

	// Customers submit with the share token, not a login.
	r.POST("/api/v1/testimonials/submit", growthHandler.SubmitTestimonial)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.GET("/roadmap", growthHandler.ListRoadmap)
		api.POST("/roadmap", middleware.RequireStaff(), growthHandler.CreateRoadmapItem)
		api.PUT("/roadmap/:item_id/status", middleware.RequireStaff(), growthHandler.UpdateRoadmapStatus)
		api.POST("/roadmap/:item_id/vote", growthHandler.ToggleVote)

		api.POST("/referrals/:referral_id/convert", middleware.RequireStaff(), growthHandler.ConvertReferral)

		org := api.Group("/orgs/:org_id")
		{
			org.POST("/testimonials", middleware.RequireOrgRole(growthRepo, roles.RoleEditor), growthHandler.CreateTestimonial)
			org.GET("/testimonials", middleware.RequireOrgRole(growthRepo, roles.RoleViewer), growthHandler.ListTestimonials)
			org.POST("/testimonials/:testimonial_id/approve", middleware.RequireOrgRole(growthRepo, roles.RoleAdmin), growthHandler.ApproveTestimonial)

			org.POST("/referrals", middleware.RequireOrgRole(growthRepo, roles.RoleAdmin), growthHandler.CreateReferral)
			org.GET("/referrals", middleware.RequireOrgRole(growthRepo, roles.RoleViewer), growthHandler.ListReferrals)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Growth service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down growth service...")

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

	log.Info("Growth service exited")
}
