package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
// Secrets are carried here and passed into constructors explicitly; nothing
// outside this package reads the environment.
type Config struct {
	Port               string
	PostgresDSN        string
	MongoURI           string
	MongoDB            string
	RedisAddr          string
	RedisPassword      string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	JWTSecret          string
	AdminUsername      string
	AdminEmail         string
	AdminPassword      string
	CorsAllowedOrigins []string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getenv("PORT", "8080"),
		PostgresDSN:        getenv("POSTGRES_DSN", ""),
		MongoURI:           getenv("MONGO_URI", ""),
		MongoDB:            getenv("MONGO_DB", "bloghub"),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:      getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey:     getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:        getenv("MINIO_BUCKET", "blog-images"),
		MinioUseSSL:        getenv("MINIO_USE_SSL", "false") == "true",
		JWTSecret:          getenv("JWT_SECRET", ""),
		AdminUsername:      getenv("ADMIN_USERNAME", "tejash"),
		AdminEmail:         getenv("ADMIN_EMAIL", "tejash@gmail.com"),
		AdminPassword:      getenv("ADMIN_PASSWORD", "tejash@123"),
		CorsAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
