package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/database"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"

	"github.com/joho/godotenv"
)

const dbSecretName = "boardgame/DB_CREDENTIALS"

type Config struct {
	Env         string
	Port        string
	ServiceName string

	Database database.Config

	JWTSecret           string
	TrustGatewayHeaders bool
	CORSAllowedOrigins  string
	RateLimitPerMinute  int
	RateLimitBurst      int

	RedisURL      string
	CacheTTL      time.Duration
	KafkaBrokers  []string
	KafkaTopic    string
	OrderTopicARN string

	AWS                 awspkg.Settings
	AWSUseSecrets       bool
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// secretMapper is the part of the Secrets Manager client config needs.
type secretMapper interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "boardgame-shop"),
		Database: database.Config{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnv("POSTGRES_PORT", "5432"),
			User:        os.Getenv("POSTGRES_USER"),
			Password:    os.Getenv("POSTGRES_PASSWORD"),
			Name:        os.Getenv("POSTGRES_DB"),
			SSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone:    getEnv("POSTGRES_TIMEZONE", "UTC"),
			MaxAttempts: getEnvInt("POSTGRES_CONNECT_ATTEMPTS", 10),
			Backoff:     getEnvDuration("POSTGRES_CONNECT_BACKOFF", 2*time.Second),
			AutoMigrate: getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TrustGatewayHeaders: getEnvBool("TRUST_GATEWAY_HEADERS", false),
		CORSAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 300),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 50),
		RedisURL:            os.Getenv("REDIS_URL"),
		CacheTTL:            getEnvDuration("CACHE_TTL", 10*time.Minute),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          getEnv("KAFKA_ORDER_TOPIC", "order.placed"),
		OrderTopicARN:       os.Getenv("ORDER_SNS_TOPIC_ARN"),
		AWS: awspkg.Settings{
			Region:   getEnv("AWS_REGION", "eu-central-1"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
		},
		AWSUseSecrets:       getEnvBool("AWS_USE_SECRETS", false),
		CloudWatchEnabled:   getEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "BoardgameShop"),
		CloudWatchLogGroup:  os.Getenv("CLOUDWATCH_LOG_GROUP"),
	}

	return cfg, nil
}

// applyDBSecrets overrides the database credentials with the values stored
// in Secrets Manager. Missing keys keep their environment values.
func applyDBSecrets(ctx context.Context, cfg *Config, sm secretMapper) error {
	m, err := sm.GetSecretMap(ctx, dbSecretName)
	if err != nil {
		return fmt.Errorf("load %s: %w", dbSecretName, err)
	}

	overrides := map[string]*string{
		"POSTGRES_USER":     &cfg.Database.User,
		"POSTGRES_PASSWORD": &cfg.Database.Password,
		"POSTGRES_DB":       &cfg.Database.Name,
		"POSTGRES_HOST":     &cfg.Database.Host,
		"POSTGRES_PORT":     &cfg.Database.Port,
	}
	for key, dst := range overrides {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.User == "" || c.Database.Password == "" || c.Database.Name == "" || c.Database.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.JWTSecret == "" && !c.TrustGatewayHeaders {
		return fmt.Errorf("JWT_SECRET is required unless TRUST_GATEWAY_HEADERS=true")
	}
	if c.RateLimitPerMinute < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
