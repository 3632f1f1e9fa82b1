package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "gbr-backend/shared/utils/auth"
)

// AuthMiddleware extracts member information from the JWT token and sets it in context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Expected Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		memberID, err := uuid.Parse(claims.MemberID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid member ID in token"})
			c.Abort()
			return
		}

		c.Set("memberID", memberID)
		c.Set("memberUsername", claims.Username)
		c.Set("memberEmail", claims.Email)
		c.Set("memberIsStaff", claims.IsStaff)

		c.Next()
	}
}

// StaffOnlyMiddleware rejects members without the staff flag. Must run after
// AuthMiddleware.
func StaffOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("memberIsStaff")
		if !exists || !isStaff.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
