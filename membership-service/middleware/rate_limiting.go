package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"gbr-backend/shared/config"
)

// RateLimit - per-key limit state
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter - rate limiting manager
type RateLimiter struct {
	store       map[string]*RateLimit
	mutex       sync.RWMutex
	cleanupTime time.Duration
}

// RateLimitConfig - rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimiter - creates a new RateLimiter instance
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*RateLimit),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

// cleanup - remove old records
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, limit := range rl.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

// isAllowed - checks if the request is allowed based on rate limiting
func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
			Blocked:    false,
		}
		return true
	}

	if limit.Blocked {
		if now.After(limit.BlockUntil) {
			limit.Blocked = false
			limit.Count = 1
			limit.ResetAt = now.Add(config.TimeWindow)
			limit.LastAccess = now
			return true
		}
		return false
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		limit.LastAccess = now
		return false
	}

	limit.Count++
	limit.LastAccess = now
	return true
}

// LoginRateLimitMiddleware - login endpoint rate limiting middleware
func (rl *RateLimiter) LoginRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "login:" + clientIP

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many login attempts",
				"message": "Too many login attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RegistrationRateLimitMiddleware - registration endpoint rate limiting middleware
func (rl *RateLimiter) RegistrationRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "register:" + clientIP

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many registration attempts",
				"message": "Too many registration attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRateLimitConfig builds the login limiter config from the environment
func LoginRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   atoiOr(cfg.LoginRateLimitMaxAttempts, 5),
		TimeWindow:    time.Duration(atoiOr(cfg.LoginRateLimitWindowSeconds, 300)) * time.Second,
		BlockDuration: time.Duration(atoiOr(cfg.LoginRateLimitBlockMinutes, 30)) * time.Minute,
	}
}

// RegisterRateLimitConfig builds the registration limiter config from the environment
func RegisterRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   atoiOr(cfg.RegisterRateLimitMaxAttempts, 3),
		TimeWindow:    time.Duration(atoiOr(cfg.RegisterRateLimitWindowHours, 24)) * time.Hour,
		BlockDuration: time.Duration(atoiOr(cfg.RegisterRateLimitBlockHours, 48)) * time.Hour,
	}
}

func atoiOr(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
