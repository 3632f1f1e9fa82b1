package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gbr-backend/analytics-service/handlers"
	"gbr-backend/analytics-service/services"
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

	analyticsService := services.NewAnalyticsService(database.GetDB())
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	router := gin.Default()

	// Analytics report (staff only)
	router.GET("/api/analytics/visits",
		sharedmw.AuthMiddleware(),
		sharedmw.StaffOnlyMiddleware(),
		analyticsHandler.GetVisitReport)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "analytics",
		})
	})

	// Parse port from config URL
	port := strings.Split(cfg.AnalyticsServiceURL, ":")[2]
	log.Printf("Analytics Service starting on port %s...", port)
	router.Run(":" + port)
}
