package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTExpireHours string

	// Super Admin
	SuperAdminUsername string
	SuperAdminEmail    string
	SuperAdminPassword string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Membership
	// Number of days a recorded payment extends the membership window.
	// 0 reproduces the record-only payment flow.
	MembershipRenewalDays int

	// Analytics
	// Comma separated path prefixes excluded from page visit logging.
	VisitExcludedPrefixes string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string

	// Frontend URL
	FrontendURL string

	// Service URLs (Dynamic based on environment)
	MembershipServiceURL string
	DirectoryServiceURL  string
	ChatServiceURL       string
	AnalyticsServiceURL  string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Company Logo Configuration
	LogoMaxFileSize  string
	LogoAllowedTypes string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gbr"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "24"),

		// Super Admin
		SuperAdminUsername: getEnv("SUPER_ADMIN_USERNAME", "admin"),
		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", "admin@gbr.com"),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", "admin123"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Membership
		MembershipRenewalDays: getEnvAsInt("MEMBERSHIP_RENEWAL_DAYS", 365),

		// Analytics
		VisitExcludedPrefixes: getEnv("VISIT_EXCLUDED_PREFIXES", "/admin,/static,/swagger,/health"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Service URLs - Environment-based configuration
		MembershipServiceURL: getEnv("MEMBERSHIP_SERVICE_URL", "http://localhost:8001"),
		DirectoryServiceURL:  getEnv("DIRECTORY_SERVICE_URL", "http://localhost:8002"),
		ChatServiceURL:       getEnv("CHAT_SERVICE_URL", "http://localhost:8003"),
		AnalyticsServiceURL:  getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8004"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "gbr-company-logos"),

		// Company Logo Configuration
		LogoMaxFileSize:  getEnv("LOGO_MAX_FILE_SIZE", "5MB"),
		LogoAllowedTypes: getEnv("LOGO_ALLOWED_TYPES", ".jpg,.jpeg,.png,.svg"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// ExcludedPrefixes returns the visit exclusion prefixes as a slice
func (c *Config) ExcludedPrefixes() []string {
	parts := strings.Split(c.VisitExcludedPrefixes, ",")
	prefixes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
