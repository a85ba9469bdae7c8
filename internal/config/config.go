package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string
	GinMode  string

	CORSOrigins []string

	// Host site identity surfaced in the assistant context
	SiteURL          string
	SiteName         string
	PlatformVersion  string
	AssistantVersion string

	// Remote AI gateway
	GatewayURL      string
	GatewayAPIKey   string
	GatewayProvider string
	GatewayModel    string
	HistoryKeep     int

	// Assistant behaviour
	AssistantEnabled   bool
	SessionPrefix      string
	PrestoPlayerActive bool
	ReferenceDocPath   string
	ModuleDirs         map[string]string

	// Per-admin chat rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// JWT Token Secrets
	AccessSecret  string
	RefreshSecret string

	// Anti-forgery nonce
	NonceSecret string

	// Host database table naming
	TablePrefix string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/content_protect"),
		DBName:      getEnv("DB_NAME", "content_protect"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		SiteURL:          getEnv("SITE_URL", "http://localhost"),
		SiteName:         getEnv("SITE_NAME", "Content Protect"),
		PlatformVersion:  getEnv("PLATFORM_VERSION", ""),
		AssistantVersion: getEnv("ASSISTANT_VERSION", "3.1.0"),

		GatewayURL:      getEnv("GATEWAY_URL", "https://gateway.example.com"),
		GatewayAPIKey:   getEnv("GATEWAY_API_KEY", ""),
		GatewayProvider: getEnv("GATEWAY_PROVIDER", "ollama"),
		GatewayModel:    getEnv("GATEWAY_MODEL", "assistant"),
		HistoryKeep:     getEnvInt("GATEWAY_HISTORY_KEEP", 30),

		AssistantEnabled:   getEnvBool("ASSISTANT_ENABLED", true),
		SessionPrefix:      getEnv("ASSISTANT_SESSION_PREFIX", "admin_"),
		PrestoPlayerActive: getEnvBool("PRESTO_PLAYER_ACTIVE", false),
		ReferenceDocPath:   getEnv("ASSISTANT_REFERENCE_DOC", ""),
		ModuleDirs: map[string]string{
			"includes": getEnv("MODULE_DIR_INCLUDES", "./modules/includes"),
			"admin":    getEnv("MODULE_DIR_ADMIN", "./modules/admin/partials"),
			"public":   getEnv("MODULE_DIR_PUBLIC", "./modules/public"),
		},

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 50),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 3600),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AccessSecret:  getEnv("ACCESS_SECRET", ""),
		RefreshSecret: getEnv("REFRESH_SECRET", ""),

		NonceSecret: getEnv("NONCE_SECRET", ""),

		TablePrefix: getEnv("TABLE_PREFIX", "cpp_"),
	}

	// Validate required fields
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("ACCESS_SECRET is required - set it in .env file")
	}

	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("REFRESH_SECRET is required - set it in .env file")
	}

	if cfg.NonceSecret == "" {
		return nil, fmt.Errorf("NONCE_SECRET is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
