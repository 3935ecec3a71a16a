package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig

	// MongoDB holds the document database connection settings
	MongoDB MongoConfig

	// Storage selects and configures the object store backend
	Storage StorageConfig

	Auth AuthConfig

	// PublicURL is the externally reachable base URL of the media server;
	// derived view/preview URLs are built on top of it.
	PublicURL string
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	APIPort     string
	MediaPort   string
	Environment string // development, staging, production
}

// MongoConfig contains MongoDB connection configuration
type MongoConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// StorageConfig selects the object store backend: "gridfs" (default) or "s3".
type StorageConfig struct {
	Backend string
	S3      S3Config
}

// S3Config contains S3/MinIO object storage configuration
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// AuthConfig contains token signing configuration
type AuthConfig struct {
	JWTSecret string
}

// LoadConfig reads .env (if present) and builds the configuration from
// environment variables with development defaults.
func LoadConfig() *Config {
	// .env is optional; env vars win either way
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			APIPort:     getEnvOrDefault("API_PORT", "8080"),
			MediaPort:   getEnvOrDefault("MEDIA_PORT", "8081"),
			Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		},
		MongoDB: MongoConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DB", "vidshare"),
		},
		Storage: StorageConfig{
			Backend: getEnvOrDefault("STORAGE_BACKEND", "gridfs"),
			S3: S3Config{
				Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
				Bucket:    getEnvOrDefault("S3_BUCKET", "vidshare-media"),
				Endpoint:  getEnvOrDefault("S3_ENDPOINT", "http://localhost:9000"),
				AccessKey: getEnvOrDefault("S3_ACCESS_KEY", ""),
				SecretKey: getEnvOrDefault("S3_SECRET_KEY", ""),
			},
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		},
		PublicURL: getEnvOrDefault("PUBLIC_URL", "http://localhost:8081"),
	}
}

// GetMongoURI builds the connection string, with credentials only when a
// username is configured.
func (c *Config) GetMongoURI() string {
	if c.MongoDB.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s",
			c.MongoDB.Username, c.MongoDB.Password, c.MongoDB.Host, c.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", c.MongoDB.Host, c.MongoDB.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
