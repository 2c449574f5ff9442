package config

import (
	"os"
	"strconv"
	"time"

	"tourly/internal/cache"
	"tourly/internal/database"
	"tourly/internal/external"
	"tourly/internal/messaging"
)

// Config contains the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Reservation hold window and the skew subtracted from the expiry the
	// client sees, so the client never perceives more time than the server honors.
	HoldDuration time.Duration
	ExpirySkew   time.Duration

	Database      database.Config
	NATS          messaging.Config
	Valkey        cache.Config
	Elasticsearch ElasticsearchConfig
	Payment       external.PaymentConfig
	Notification  external.NotificationConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		HoldDuration: time.Duration(getEnvInt("HOLD_DURATION_SEC", 600)) * time.Second,
		ExpirySkew:   time.Duration(getEnvInt("EXPIRY_SKEW_SEC", 60)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "tourly"),
			Password:           getEnv("DB_PASSWORD", "tourly123"),
			DBName:             getEnv("DB_NAME", "tourly"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "tourly"),
			ClientID:  getEnv("NATS_CLIENT_ID", "tourly-api"),
		},

		Valkey: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     os.Getenv("VALKEY_PASSWORD"),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},

		Elasticsearch: LoadElasticsearchConfig(),

		Payment: external.PaymentConfig{
			BaseURL:       getEnv("PAYMENT_GATEWAY_URL", "https://gateway.example.com"),
			MerchantID:    getEnv("PAYMENT_MERCHANT_ID", ""),
			SecretKey:     getEnv("PAYMENT_SECRET_KEY", ""),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			Timeout:       time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Notification: external.NotificationConfig{
			BaseURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8090"),
			Timeout: time.Duration(getEnvInt("NOTIFICATION_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
