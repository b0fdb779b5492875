package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Consent artifacts are only archived when Endpoint is set.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Format      string
	ServiceName string
}

// MailboxConfig holds the virtual-mailbox provider settings.
// An empty APIKey switches the client to simulation mode.
type MailboxConfig struct {
	APIKey  string
	BaseURL string
}

// OCRConfig holds the Mindee OCR settings.
// An empty APIKey switches the client to simulation mode.
type OCRConfig struct {
	APIKey   string
	Endpoint string
}

// RedisConfig configures the webhook delivery guard. An empty URL disables it.
// A delivery holds a short ClaimTTLSec claim while it is processed; the claim is extended to
// DedupeTTLSec once the document is committed.
type RedisConfig struct {
	URL            string
	ClaimTTLSec    int
	DedupeTTLSec   int
	PoolSize       int
	DialTimeoutSec int
}

// ClaimTTL is how long an in-progress delivery blocks redeliveries of the same mail.
func (c RedisConfig) ClaimTTL() time.Duration {
	return time.Duration(c.ClaimTTLSec) * time.Second
}

// DedupeTTL is how long a processed mail id is remembered.
func (c RedisConfig) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSec) * time.Second
}

// KafkaConfig configures the client notification channel. No brokers means log-only notifications.
// DeliveryTimeoutSec bounds a single notification, broker retries included.
type KafkaConfig struct {
	Brokers            []string
	NotifyTopic        string
	DeliveryTimeoutSec int
}

// DeliveryTimeout is the upper bound for publishing one notification.
func (c KafkaConfig) DeliveryTimeout() time.Duration {
	return time.Duration(c.DeliveryTimeoutSec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string
	Port               string
	AgentName          string
	ProviderTimeoutSec int
	Log                LogConfig
	Database           DatabaseConfig
	MinIO              MinIOConfig
	Mailbox            MailboxConfig
	OCR                OCRConfig
	Redis              RedisConfig
	Kafka              KafkaConfig
}

// ProviderTimeout is the upper bound for a single scan or OCR provider call.
func (c *AppConfig) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSec) * time.Second
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:            getEnv("APP_HOST", "localhost:8080"),
		Port:               getEnv("PORT", "8080"),
		AgentName:          getEnv("AGENT_NAME", "Registered Agent Services LLC"),
		ProviderTimeoutSec: getEnvInt("PROVIDER_TIMEOUT_SEC", 10),
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			ServiceName: getEnv("SERVICE_NAME", "agentmail"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Mailbox: MailboxConfig{
			APIKey:  getEnv("VIRTUAL_MAILBOX_API_KEY", ""),
			BaseURL: getEnv("VIRTUAL_MAILBOX_BASE_URL", "https://api.virtualpostmail.com/v1"),
		},
		OCR: OCRConfig{
			APIKey:   getEnv("MINDEE_API_KEY", ""),
			Endpoint: getEnv("MINDEE_ENDPOINT", "https://api.mindee.net/v1/products/mindee/us_mail_ocr/v1/predict"),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			ClaimTTLSec:    getEnvInt("WEBHOOK_CLAIM_TTL_SEC", 300),
			DedupeTTLSec:   getEnvInt("WEBHOOK_DEDUPE_TTL_SEC", 86400),
			PoolSize:       getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeoutSec: getEnvInt("REDIS_DIAL_TIMEOUT_SEC", 5),
		},
		Kafka: KafkaConfig{
			Brokers:            getEnvList("KAFKA_BROKERS"),
			NotifyTopic:        getEnv("KAFKA_NOTIFY_TOPIC", "client-notifications"),
			DeliveryTimeoutSec: getEnvInt("NOTIFY_TIMEOUT_SEC", 5),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
