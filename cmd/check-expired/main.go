package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"gbr-backend/membership-service/services"
	"gbr-backend/shared/config"
	"gbr-backend/shared/database"
	"gbr-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// The redis lock keeps overlapping scheduled runs from racing; the job
	// still runs with the local lock alone when redis is down.
	var locker services.JobLocker
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, running without distributed lock: %v", err)
	} else {
		locker = cache.GetCacheManager()
	}

	expiryService := services.NewExpiryService(database.GetDB(), locker)

	count, err := expiryService.Run(context.Background(), time.Now())
	if err != nil {
		log.Printf("❌ Expiry run failed: %v", err)
		return
	}

	fmt.Printf("Deactivated %d expired members.\n", count)
}
