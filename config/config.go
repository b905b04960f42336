package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Classifier ClassifierConfig
	Redis      RedisConfig
	CORS       CORSConfig
	MQTT       MQTTConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	ProbeTimeoutSec int
}

// StorageConfig covers the flat-file fallback store.
type StorageConfig struct {
	DataFile string
}

type ClassifierConfig struct {
	ModelPath string
}

type RedisConfig struct {
	URL string
}

type CORSConfig struct {
	AllowedOrigins string
}

type MQTTConfig struct {
	URL         string
	Topic       string
	MetricsAddr string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	probeTimeout, err := getIntEnv("DB_PROBE_TIMEOUT_SEC", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PROBE_TIMEOUT_SEC: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: serverPort,
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnv("DB_USER", "maintenance"),
			Password:        getEnv("DB_PASSWORD", "maintenance_dev_password"),
			Name:            getEnv("DB_NAME", "maintenance_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			ProbeTimeoutSec: probeTimeout,
		},
		Storage: StorageConfig{
			DataFile: getEnv("DATA_FILE", "machine_data.json"),
		},
		Classifier: ClassifierConfig{
			ModelPath: getEnv("MODEL_PATH", "model.json"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		MQTT: MQTTConfig{
			URL:         getEnv("MQTT_URL", "tcp://localhost:1883"),
			Topic:       getEnv("MQTT_TOPIC", "machines/telemetry/+"),
			MetricsAddr: getEnv("METRICS_ADDR", ":8080"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
