package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного REST API.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера (/metrics, /healthz, /livez).
	MetricsAddr string
	// DatabaseURL — DSN Postgres. Пустое значение включает in-memory хранилище.
	DatabaseURL string
	// KafkaBrokers — список брокеров через запятую. Пустое значение отключает Kafka.
	KafkaBrokers []string
	// CORSOrigin — origin фронтенда. Пустое значение отключает CORS-заголовки.
	CORSOrigin string
	// IdempotencyTTL — срок жизни записи в кэше идемпотентности.
	IdempotencyTTL time.Duration
	// SweepInterval — период фоновой чистки просроченных записей.
	SweepInterval time.Duration
}

// DefaultConfig возвращает безопасные значения по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		IdempotencyTTL: 24 * time.Hour,
		SweepInterval:  10 * time.Minute,
	}
}

// ReadConfig собирает конфигурацию из .env файла и переменных окружения.
// Отсутствие .env не считается ошибкой.
func ReadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("ORDERS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("ORDERS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if v := os.Getenv("ORDERS_CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if d, err := time.ParseDuration(os.Getenv("ORDERS_IDEMPOTENCY_TTL")); err == nil && d > 0 {
		cfg.IdempotencyTTL = d
	}
	if d, err := time.ParseDuration(os.Getenv("ORDERS_SWEEP_INTERVAL")); err == nil && d > 0 {
		cfg.SweepInterval = d
	}
	return cfg
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			brokers = append(brokers, part)
		}
	}
	return brokers
}
