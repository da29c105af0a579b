package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	APIBaseURL      string
	HTTPTimeout     time.Duration
	CredentialsPath string

	KafkaBrokers []string
	EventsTopic  string

	DevAddr        string
	DatabaseURL    string
	DevSQLitePath  string
	JWTSecret      []byte
	TokenTTL       time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Notice: .env file not loaded: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "food_client"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		APIBaseURL:      strings.TrimRight(EnvDefault("API_BASE_URL", "http://localhost:8081/api"), "/"),
		HTTPTimeout:     EnvDurationDefault("HTTP_TIMEOUT", 10*time.Second),
		CredentialsPath: EnvDefault("CREDENTIALS_PATH", "food_client.db"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "client_events"),

		DevAddr:        EnvDefault("DEV_ADDR", ":8081"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DevSQLitePath:  EnvDefault("DEV_SQLITE_PATH", ":memory:"),
		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:       EnvDurationDefault("TOKEN_TTL", 24*time.Hour),
		RateLimitRPS:   EnvIntDefault("RATE_LIMIT_RPS", 50),
		RateLimitBurst: EnvIntDefault("RATE_LIMIT_BURST", 100),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
