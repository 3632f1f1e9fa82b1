package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gbr-backend/directory-service/handlers"
	"gbr-backend/directory-service/services"
	"gbr-backend/shared/config"
	"gbr-backend/shared/database"
	sharedmw "gbr-backend/shared/middleware"
	"gbr-backend/shared/utils/cache"
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

	// Taxonomy cache is optional; the service degrades to direct queries
	var taxonomyCache services.TaxonomyCache
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, taxonomy cache disabled: %v", err)
	} else {
		taxonomyCache = cache.GetCacheManager()
	}

	// Logo storage is optional as well
	logoService, err := services.NewLogoService()
	if err != nil {
		log.Printf("⚠️ MinIO unavailable, logo storage disabled: %v", err)
		logoService = nil
	}

	taxonomyService := services.NewTaxonomyService(database.GetDB(), taxonomyCache)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService, logoService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(sharedmw.PageVisitMiddleware(database.GetDB(), cfg.ExcludedPrefixes()))

	// Browse routes (public)
	router.GET("/api/continents", taxonomyHandler.GetContinents)
	router.GET("/api/continents/:id/countries", taxonomyHandler.GetCountries)
	router.GET("/api/countries/:id/industries", taxonomyHandler.GetIndustries)
	router.GET("/api/industries/:id/companies", taxonomyHandler.GetCompanies)
	router.GET("/api/companies/:id", taxonomyHandler.GetCompany)

	// Administrative routes (staff only)
	admin := router.Group("/api", sharedmw.AuthMiddleware(), sharedmw.StaffOnlyMiddleware())
	admin.POST("/continents", taxonomyHandler.CreateContinent)
	admin.DELETE("/continents/:id", taxonomyHandler.DeleteContinent)
	admin.POST("/continents/:id/countries", taxonomyHandler.CreateCountry)
	admin.DELETE("/countries/:id", taxonomyHandler.DeleteCountry)
	admin.POST("/countries/:id/industries", taxonomyHandler.CreateIndustry)
	admin.DELETE("/industries/:id", taxonomyHandler.DeleteIndustry)
	admin.POST("/industries/:id/companies", taxonomyHandler.CreateCompany)
	admin.PUT("/companies/:id", taxonomyHandler.UpdateCompany)
	admin.DELETE("/companies/:id", taxonomyHandler.DeleteCompany)
	admin.POST("/companies/:id/logo", taxonomyHandler.UploadCompanyLogo)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "directory",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(cfg.DirectoryServiceURL, ":")[2]
	log.Printf("Directory Service starting on port %s...", port)
	router.Run(":" + port)
}
