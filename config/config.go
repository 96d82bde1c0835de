package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Payment provider credentials. FlwSecretKey authenticates outbound
	// verify calls; FlwWebhookSecret is the pre-shared webhook signature.
	FlwSecretKey     string
	FlwWebhookSecret string
	FlwAPIURL        string

	DefaultBrand string
	JWTSecret    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	FrontendURL  string

	// RedisAddr is optional; rate limiting is disabled when empty.
	RedisAddr string

	VerifyTimeout time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file is
// read when present but is not required.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:             getenv("PORT", "8080"),
		Env:              getenv("ENV", "development"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		FlwSecretKey:     os.Getenv("FLW_SECRET_KEY"),
		FlwWebhookSecret: os.Getenv("FLW_WEBHOOK_SECRET"),
		FlwAPIURL:        getenv("FLW_API_URL", "https://api.flutterwave.com/v3"),
		DefaultBrand:     getenv("DEFAULT_BRAND", "serac"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getenv("SMTP_PORT", "587"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:         os.Getenv("SMTP_FROM"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		VerifyTimeout:    15 * time.Second,
	}

	if raw := os.Getenv("VERIFY_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid VERIFY_TIMEOUT_SECONDS: %v", err)
		}
		config.VerifyTimeout = time.Duration(secs) * time.Second
	}

	return config, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
