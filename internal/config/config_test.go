package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINDEE_API_KEY", "mindee-key")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PROVIDER_TIMEOUT_SEC", "3")
	t.Setenv("NOTIFY_TIMEOUT_SEC", "2")
	t.Setenv("WEBHOOK_CLAIM_TTL_SEC", "60")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "mindee-key", cfg.OCR.APIKey)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout())
	assert.Equal(t, 2*time.Second, cfg.Kafka.DeliveryTimeout())
	assert.Equal(t, time.Minute, cfg.Redis.ClaimTTL())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VIRTUAL_MAILBOX_API_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("PROVIDER_TIMEOUT_SEC", "")
	t.Setenv("NOTIFY_TIMEOUT_SEC", "")
	t.Setenv("WEBHOOK_CLAIM_TTL_SEC", "")

	cfg := Load()

	assert.Empty(t, cfg.Mailbox.APIKey)
	assert.Equal(t, "https://api.virtualpostmail.com/v1", cfg.Mailbox.BaseURL)
	assert.Equal(t, "https://api.mindee.net/v1/products/mindee/us_mail_ocr/v1/predict", cfg.OCR.Endpoint)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "client-notifications", cfg.Kafka.NotifyTopic)
	assert.Equal(t, 86400, cfg.Redis.DedupeTTLSec)
	assert.Equal(t, 24*time.Hour, cfg.Redis.DedupeTTL())
	assert.Equal(t, 5*time.Minute, cfg.Redis.ClaimTTL())
	assert.Equal(t, 5*time.Second, cfg.Kafka.DeliveryTimeout())
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, "a,b , ,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key))

	os.Unsetenv(key)
	assert.Nil(t, getEnvList(key))
}
