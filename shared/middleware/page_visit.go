package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

// PageVisitMiddleware appends one PageVisit row per request. Paths starting
// with an excluded prefix (administrative and static-asset routes) are skipped.
// A failed insert never fails the request.
func PageVisitMiddleware(db *gorm.DB, excludedPrefixes []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, prefix := range excludedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		visit := models.PageVisit{Path: path}
		if err := db.Create(&visit).Error; err != nil {
			log.Printf("❌ Failed to record page visit for %s: %v", path, err)
		}

		c.Next()
	}
}
