package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gbr-backend/membership-service/handlers"
	"gbr-backend/membership-service/middleware"
	"gbr-backend/shared/config"
	"gbr-backend/shared/database"
	sharedmw "gbr-backend/shared/middleware"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()
	router.Use(sharedmw.PageVisitMiddleware(database.GetDB(), cfg.ExcludedPrefixes()))

	rateLimiter := middleware.NewRateLimiter(1 * time.Hour)
	authHandler := handlers.NewAuthHandler(database.GetDB(), cfg.MembershipRenewalDays)
	memberHandler := handlers.NewMemberHandler(database.GetDB())

	// Auth routes
	router.POST("/api/auth/register",
		rateLimiter.RegistrationRateLimitMiddleware(middleware.RegisterRateLimitConfig()),
		authHandler.Register)
	router.POST("/api/auth/login",
		rateLimiter.LoginRateLimitMiddleware(middleware.LoginRateLimitConfig()),
		authHandler.Login)
	router.GET("/api/auth/me", sharedmw.AuthMiddleware(), authHandler.Me)

	// Payment routes
	router.POST("/api/payments", sharedmw.AuthMiddleware(), authHandler.RecordPayment)

	// Administrative member listing
	router.GET("/api/members", sharedmw.AuthMiddleware(), sharedmw.StaffOnlyMiddleware(), memberHandler.GetMembers)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "membership",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(cfg.MembershipServiceURL, ":")[2]
	log.Printf("Membership Service starting on port %s...", port)
	router.Run(":" + port)
}
