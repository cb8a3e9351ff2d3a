package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	NOAA    NOAAConfig
	Worker  WorkerConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatasetConfig struct {
	URL             string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

type NOAAConfig struct {
	Enabled   bool
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Dataset: DatasetConfig{
			URL:             getEnv("ALERTS_ARCHIVE_URL", "https://tgftp.nws.noaa.gov/SL.us008001/DF.sha/DC.cap/DS.WWA/current_all.tar.gz"),
			RefreshInterval: getEnvDuration("ALERTS_REFRESH_INTERVAL", 15*time.Minute),
			FetchTimeout:    getEnvDuration("ALERTS_FETCH_TIMEOUT", 60*time.Second),
		},
		NOAA: NOAAConfig{
			Enabled:   getEnvBool("NOAA_API_ENABLED", true),
			BaseURL:   getEnv("NOAA_API_URL", "https://api.weather.gov"),
			UserAgent: getEnv("NOAA_API_USER_AGENT", "go-wx-alerts (github.com/mr1hm/go-wx-alerts)"),
			Timeout:   getEnvDuration("NOAA_API_TIMEOUT", 15*time.Second),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/wx-alerts.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Dataset.URL == "" {
		return fmt.Errorf("alerts archive URL must not be empty")
	}
	if c.Dataset.RefreshInterval < time.Minute {
		return fmt.Errorf("alerts refresh interval must be at least 1 minute")
	}
	if c.NOAA.Enabled && c.NOAA.BaseURL == "" {
		return fmt.Errorf("NOAA API URL must not be empty when enrichment is enabled")
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
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
