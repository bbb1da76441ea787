package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	JWTSecret  string
	BcryptCost int

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	UsersTable         string
	EventsTable        string
	SubscriptionsTable string

	EmailProvider string
	EmailFrom     string
	EmailFromName string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment: env,
		Port:        getEnv("PORT", "8080"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		UsersTable:         getEnv("DYNAMO_USERS_TABLE", "users"),
		EventsTable:        getEnv("DYNAMO_EVENTS_TABLE", "events"),
		SubscriptionsTable: getEnv("DYNAMO_SUBSCRIPTIONS_TABLE", "subscriptions"),

		EmailProvider: getEnv("EMAIL_PROVIDER", "noop"),
		EmailFrom:     getEnv("EMAIL_FROM", "no-reply@eventdesk.local"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "EventDesk"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "event-images"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		if env == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "development-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: %s is not an integer, using %d", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Warning: %s is not a boolean, using %t", key, fallback)
	}
	return fallback
}
