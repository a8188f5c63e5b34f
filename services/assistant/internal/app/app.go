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
	"postdeck/pkg/roles"
	assistantHTTP "postdeck/services/assistant/internal/controller/http"
	"postdeck/services/assistant/internal/provider"
	"postdeck/services/assistant/internal/repo/persistent"
	"postdeck/services/assistant/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "postdeck/services/assistant/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	providers   *provider.Resolver
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

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		providers:   provider.NewResolver(cfg, log),
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	assistantRepo := persistent.NewAssistantRepository(a.db)

	// Initialize use cases
	assistantUseCase := usecase.NewAssistantUseCase(
		assistantRepo,
		a.providers,
		a.redisClient,
		a.log,
	)

	// Initialize HTTP handlers
	assistantHandler := assistantHTTP.NewAssistantHandler(assistantUseCase, a.log)

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
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
	{
		api.POST("/assistant/chat", assistantHandler.Chat)

		org := api.Group("/orgs/:org_id")
		{
			org.POST("/assistant/generate", middleware.RequireOrgRole(assistantRepo, roles.RoleEditor), assistantHandler.Generate)
			org.POST("/assistant/ideas", middleware.RequireOrgRole(assistantRepo, roles.RoleEditor), assistantHandler.Ideas)
			org.GET("/assistant/usage", middleware.RequireOrgRole(assistantRepo, roles.RoleViewer), assistantHandler.Usage)
		}

		kb := api.Group("/kb")
		kb.Use(middleware.RequireStaff())
		{
			kb.POST("/documents", assistantHandler.CreateDocument)
			kb.GET("/documents", assistantHandler.ListDocuments)
			kb.GET("/documents/:document_id", assistantHandler.GetDocument)
			kb.DELETE("/documents/:document_id", assistantHandler.DeleteDocument)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Assistant service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down assistant service...")
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

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Assistant service exited")
	return nil
}
