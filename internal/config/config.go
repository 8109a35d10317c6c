package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once by the process
// entry point and handed to the components that need it.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// SMTPEncryptionKey derives the key that seals stored SMTP passwords.
	// Empty means an ephemeral key is generated at startup.
	SMTPEncryptionKey string

	// FrontendURL is used to build password reset links.
	FrontendURL string

	// Admin bootstrap; skipped when username or password is empty.
	AdminUsername   string
	AdminPassword   string
	AdminEmail      string
	AdminFamilyName string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spesecasa"),
		DBPassword: getEnv("DB_PASSWORD", "spesecasa"),
		DBName:     getEnv("DB_NAME", "spesecasa"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		SMTPEncryptionKey: os.Getenv("SMTP_ENCRYPTION_KEY"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost"),

		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminFamilyName: getEnv("ADMIN_FAMILY_NAME", "Default"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "30m")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 30m\n", expStr)
		expDur = 30 * time.Minute
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
