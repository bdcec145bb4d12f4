package config

import (
	"fmt"
	"strings"

	// Автозагрузка .env: аналог db.properties — переменные попадают в
	// окружение процесса до чтения конфигурации.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ECOM_"

// Config описывает настройки запуска приложения.
type Config struct {
	// PostgresDSN — строка подключения; пустая означает in-memory хранилище.
	PostgresDSN string `koanf:"postgres_dsn"`
	// MetricsAddr — адрес HTTP-сервера /metrics и /healthz.
	MetricsAddr string `koanf:"metrics_addr"`
	// KafkaBrokers — список брокеров через запятую; пустой отключает события.
	KafkaBrokers string `koanf:"kafka_brokers"`
	// LogLevel — уровень логирования logrus (debug|info|warn|error).
	LogLevel string `koanf:"log_level"`
}

// Default возвращает базовую конфигурацию.
func Default() Config {
	return Config{
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// Load читает конфигурацию из окружения поверх значений по умолчанию.
// Переменные берутся с префиксом ECOM_: например, ECOM_POSTGRES_DSN.
func Load() (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Brokers разбирает список Kafka-брокеров.
func (c Config) Brokers() []string {
	raw := strings.TrimSpace(c.KafkaBrokers)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
