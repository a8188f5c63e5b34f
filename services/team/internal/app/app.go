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
	teamHTTP "postdeck/services/team/internal/controller/http"
	"postdeck/services/team/internal/repo/persistent"
	"postdeck/services/team/internal/usecase"

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
	orgRepo := persistent.NewOrganizationRepository(db)

	// Initialize use cases
	teamUseCase := usecase.NewTeamUseCase(orgRepo, log)

	// Initialize HTTP handlers
	teamHandler := teamHTTP.NewTeamHandler(teamUseCase)

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
		api.GET("/roles", teamHandler.GetRoleMatrix)
		api.POST("/invites/accept", teamHandler.AcceptInvite)

		orgs := api.Group("/orgs")
		{
			orgs.POST("", teamHandler.CreateOrganization)
			orgs.GET("", teamHandler.ListOrganizations)

			org := orgs.Group("/:org_id")
			{
				org.GET("", middleware.RequireOrgRole(orgRepo, roles.RoleViewer), teamHandler.GetOrganization)
				org.PUT("", middleware.RequireOrgRole(orgRepo, roles.RoleOwner), teamHandler.UpdateOrganization)

				org.GET("/members", middleware.RequireOrgRole(orgRepo, roles.RoleViewer), teamHandler.ListMembers)
				org.PUT("/members/:user_id", middleware.RequireOrgRole(orgRepo, roles.RoleAdmin), teamHandler.UpdateMemberRole)
				org.DELETE("/members/:user_id", middleware.RequireOrgRole(orgRepo, roles.RoleAdmin), teamHandler.RemoveMember)

				org.GET("/invites", middleware.RequireOrgRole(orgRepo, roles.RoleAdmin), teamHandler.ListInvites)
				org.POST("/invites", middleware.RequireOrgRole(orgRepo, roles.RoleAdmin), teamHandler.CreateInvite)
				org.DELETE("/invites/:invite_id", middleware.RequireOrgRole(orgRepo, roles.RoleAdmin), teamHandler.RevokeInvite)

				org.POST("/transfer", middleware.RequireOrgRole(orgRepo, roles.RoleOwner), teamHandler.TransferOwnership)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Team service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down team service...")

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

	log.Info("Team service exited")
}
