package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gbr-backend/shared/config"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	TaxonomyTTL        = 30 * time.Minute
	JobLockTTL         = 10 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	// Create Redis client
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// GenerateTaxonomyKey generates a cache key for a taxonomy listing
func GenerateTaxonomyKey(level, parentID string) string {
	if parentID == "" {
		return fmt.Sprintf("taxonomy:%s:root", level)
	}
	return fmt.Sprintf("taxonomy:%s:parent:%s", level, parentID)
}

// SetTaxonomyCache caches a serialized taxonomy listing
func (cm *CacheManager) SetTaxonomyCache(level, parentID string, value interface{}) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := GenerateTaxonomyKey(level, parentID)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	err = cm.client.Set(cm.ctx, key, jsonData, TaxonomyTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set cache: %v", err)
	}

	log.Printf("🔄 Taxonomy listing cached: %s (TTL: %v)", key, TaxonomyTTL)
	return nil
}

// GetTaxonomyCache retrieves a cached taxonomy listing into dest
func (cm *CacheManager) GetTaxonomyCache(level, parentID string, dest interface{}) bool {
	if cm == nil || cm.client == nil {
		return false
	}

	key := GenerateTaxonomyKey(level, parentID)

	result, err := cm.client.Get(cm.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false
		}
		log.Printf("❌ Cache error: %v", err)
		return false
	}

	if err := json.Unmarshal([]byte(result), dest); err != nil {
		log.Printf("❌ Failed to unmarshal cache data: %v", err)
		return false
	}

	return true
}

// InvalidateTaxonomy invalidates every cached taxonomy listing. Admin edits
// are rare enough that a full sweep is simpler than per-branch tracking.
func (cm *CacheManager) InvalidateTaxonomy() error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	return cm.invalidateByPattern("taxonomy:*")
}

// invalidateByPattern deletes all keys matching a pattern
func (cm *CacheManager) invalidateByPattern(pattern string) error {
	keys, err := cm.client.Keys(cm.ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for pattern %s: %v", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := cm.client.Del(cm.ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %v", err)
	}

	log.Printf("🗑️ Cache invalidated: %d keys (pattern: %s)", len(keys), pattern)
	return nil
}

// AcquireJobLock takes a single-flight lock for a named batch job. Returns
// false when another run holds the lock.
func (cm *CacheManager) AcquireJobLock(job string) (bool, error) {
	if cm == nil || cm.client == nil {
		return false, fmt.Errorf("cache manager not initialized")
	}

	key := fmt.Sprintf("joblock:%s", job)
	ok, err := cm.client.SetNX(cm.ctx, key, time.Now().UTC().Format(time.RFC3339), JobLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock: %v", err)
	}
	return ok, nil
}

// ReleaseJobLock releases a previously acquired job lock
func (cm *CacheManager) ReleaseJobLock(job string) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := fmt.Sprintf("joblock:%s", job)
	return cm.client.Del(cm.ctx, key).Err()
}
