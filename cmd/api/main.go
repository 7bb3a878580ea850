package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"skyllor-miniapp-backend/internal/config"
	"skyllor-miniapp-backend/internal/handlers"
	"skyllor-miniapp-backend/internal/middleware"
	"skyllor-miniapp-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)
	notifier := services.NewTelegramNotifier(cfg)
	adService := services.NewAdService(cfg)

	wsHandler := handlers.NewWebSocketHandler(redisService)

	spinEngine := services.NewSpinEngine(redisService, adService, wsHandler)
	withdrawalService := services.NewWithdrawalService(redisService, notifier, wsHandler)

	devMode := cfg.Env != "production"
	authHandler := handlers.NewAuthHandler(redisService, jwtService, cfg.BotToken, devMode)
	userHandler := handlers.NewUserHandler(redisService, spinEngine, cfg.BotUsername)
	spinHandler := handlers.NewSpinHandler(spinEngine)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/auth/telegram", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		spin := protected.Group("/spin")
		{
			spin.GET("/status", spinHandler.GetStatus)
			spin.POST("", spinHandler.Spin)
		}

		protected.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
		protected.GET("/withdrawals", withdrawalHandler.GetHistory)
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
