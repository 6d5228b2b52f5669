package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Warning: Invalid %s, using default: %s", key, defaultVal)
	}
	return defaultVal
}

// GetListEnv splits a comma separated environment variable.
func GetListEnv(key string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Config is the typed view of the environment used by cmd/server.
type Config struct {
	Port        string
	CORSOrigins string

	JWTSecret string
	JWTTTL    time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	KafkaBrokers    []string
	KafkaEmailTopic string

	AdminNotifyEmail      string
	StrikeReviewThreshold int

	OutboxInterval   time.Duration
	OutboxBatchSize  int
	OutboxClaimTTL   time.Duration
	OutboxMaxRetries int
}

// Load reads the application configuration from the environment.
func Load() Config {
	return Config{
		Port:        GetEnv("PORT", "3000"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),

		JWTSecret: GetEnv("JWT_SECRET", "marketplace"),
		JWTTTL:    GetDurationEnv("JWT_TTL", time.Hour),

		StripeSecretKey:     GetEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		Currency:            strings.ToLower(GetEnv("CURRENCY", "usd")),
		CheckoutSuccessURL:  GetEnv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/checkout/success"),
		CheckoutCancelURL:   GetEnv("CHECKOUT_CANCEL_URL", "http://localhost:5173/checkout/cancel"),

		KafkaBrokers:    GetListEnv("KAFKA_BROKERS"),
		KafkaEmailTopic: GetEnv("KAFKA_EMAIL_TOPIC", "marketplace.email"),

		AdminNotifyEmail:      GetEnv("ADMIN_NOTIFY_EMAIL", "copyright@localhost"),
		StrikeReviewThreshold: GetIntEnv("STRIKE_REVIEW_THRESHOLD", 3),

		OutboxInterval:   GetDurationEnv("OUTBOX_INTERVAL", 2*time.Second),
		OutboxBatchSize:  GetIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxClaimTTL:   GetDurationEnv("OUTBOX_CLAIM_TTL", 30*time.Second),
		OutboxMaxRetries: GetIntEnv("OUTBOX_MAX_RETRIES", 5),
	}
}
