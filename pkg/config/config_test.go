package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_RPS", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:8081/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 50, cfg.RateLimitRPS)
	assert.Equal(t, "client_events", cfg.EventsTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://food.example.com/api/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "https://food.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 50, cfg.RateLimitRPS)
}

func TestValidate(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.NoError(t, cfg.ValidateClient())

	err := cfg.ValidateDevBackend()
	assert.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = []byte("s3cret")
	assert.NoError(t, cfg.ValidateDevBackend())

	cfg.APIBaseURL = ""
	cfg.CredentialsPath = ""
	err = cfg.ValidateClient()
	assert.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "API_BASE_URL, CREDENTIALS_PATH")
}
