package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gbr-backend/chat-service/handlers"
	"gbr-backend/chat-service/services"
	"gbr-backend/shared/config"
	"gbr-backend/shared/database"
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

	messageStore := services.NewGormMessageStore(database.GetDB())
	chatService := services.NewChatService(messageStore)
	chatHandler := handlers.NewChatHandler(chatService, messageStore)

	router := gin.Default()

	// WebSocket routes
	router.GET("/ws/chat/:company_id", chatHandler.HandleChat)
	router.GET("/ws/video/:company_id", chatHandler.HandleVideo)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "chat",
		})
	})

	// Parse port from config URL
	port := strings.Split(cfg.ChatServiceURL, ":")[2]
	log.Printf("Chat Service starting on port %s...", port)
	router.Run(":" + port)
}
