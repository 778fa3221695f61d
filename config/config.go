package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront runtime reads from the
// environment at startup.
type Config struct {
	Port     string
	Env      string
	LogLevel string
	WebDir   string

	// Cart persistence channel
	ProfileKey     string
	StorageBackend string // file | memory | postgres | dynamo
	StorageDir     string
	PostgresDSN    string
	DynamoTable    string

	// Remote platform services
	CatalogAPIURL  string
	OrderAPIURL    string
	IdentityURL    string
	IdentityMode   string // local | remote
	ProductCacheTTL time.Duration

	// Session tokens
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// HTTP surface
	RateLimitRPS   float64
	RateLimitBurst int

	// Cart activity telemetry
	TelemetryEnabled bool
	KafkaBrokers     []string
	KafkaTopic       string
}

func Load() *Config {
	// .env is optional; container and CI environments rely on real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		WebDir:   getEnv("WEB_DIR", ""),

		ProfileKey:     getEnv("CART_PROFILE_KEY", "cart"),
		StorageBackend: getEnv("CART_STORAGE", "file"),
		StorageDir:     getEnv("CART_STORAGE_DIR", ".storefront"),
		PostgresDSN:    getEnv("CART_POSTGRES_DSN", ""),
		DynamoTable:    getEnv("CART_DYNAMO_TABLE", ""),

		CatalogAPIURL:   getEnv("CATALOG_API_URL", "http://localhost:9000"),
		OrderAPIURL:     getEnv("ORDER_API_URL", "http://localhost:9000"),
		IdentityURL:     getEnv("IDENTITY_URL", ""),
		IdentityMode:    getEnv("IDENTITY_MODE", "local"),
		ProductCacheTTL: getDurationEnv("PRODUCT_CACHE_TTL", 10*time.Minute),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTokenExpiry:  getDurationEnv("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry: getDurationEnv("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),

		TelemetryEnabled: getBoolEnv("TELEMETRY_ENABLED", false),
		KafkaBrokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "cart-activity"),
	}

	cfg.validate()
	return cfg
}

func (c *Config) validate() {
	if c.JWTSecret == "" {
		log.Fatal("CRITICAL: JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters")
	}
	switch c.StorageBackend {
	case "file", "memory", "postgres", "dynamo":
	default:
		log.Fatalf("CRITICAL: unknown CART_STORAGE backend %q", c.StorageBackend)
	}
	if c.StorageBackend == "postgres" && c.PostgresDSN == "" {
		log.Fatal("CRITICAL: CART_POSTGRES_DSN is required when CART_STORAGE=postgres")
	}
	if c.StorageBackend == "dynamo" && c.DynamoTable == "" {
		log.Fatal("CRITICAL: CART_DYNAMO_TABLE is required when CART_STORAGE=dynamo")
	}
	if c.IdentityMode == "remote" && c.IdentityURL == "" {
		log.Fatal("CRITICAL: IDENTITY_URL is required when IDENTITY_MODE=remote")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid bool for %s, using fallback", key)
	}
	return fallback
}
