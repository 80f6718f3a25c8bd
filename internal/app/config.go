package app

import (
	"os"
	"strings"
	"time"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес API кассы.
	HTTPAddr string
	// MetricsAddr — адрес метрик и health-проверок.
	MetricsAddr string
	// KafkaBrokers — список брокеров через запятую; пусто отключает Kafka.
	KafkaBrokers string
	// PostgresDSN — строка подключения; пусто включает in-memory хранилище.
	PostgresDSN string
	// OutboxPollInterval — частота опроса transactional outbox.
	OutboxPollInterval time.Duration
}

// DefaultConfig возвращает базовые адреса API и метрик.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		OutboxPollInterval: time.Second,
	}
}

// ConfigFromEnv собирает конфигурацию из окружения поверх значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if addr := strings.TrimSpace(os.Getenv("POS_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := strings.TrimSpace(os.Getenv("POS_METRICS_ADDR")); addr != "" {
		cfg.MetricsAddr = addr
	}
	cfg.KafkaBrokers = strings.TrimSpace(os.Getenv("POS_KAFKA_BROKERS"))
	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("POS_POSTGRES_DSN"))

	if raw := strings.TrimSpace(os.Getenv("POS_OUTBOX_POLL_INTERVAL")); raw != "" {
		if interval, err := time.ParseDuration(raw); err == nil && interval > 0 {
			cfg.OutboxPollInterval = interval
		}
	}

	return cfg
}
