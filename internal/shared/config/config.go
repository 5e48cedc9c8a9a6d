package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	StorageProvider     string
	ExportDir           string
	ExportBaseURL       string
	ExportTTL           time.Duration
	ExportSweepSchedule string
	DefaultCurrency     string
	StoreName           string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucketName      string
}

const (
	defaultExportTTL     = 2 * time.Minute
	defaultSweepSchedule = "@every 5m"
)

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.LogWarn("⚠️ .env file not found, using system environment variables", nil)
	}

	cfg := &Config{
		Port:        os.Getenv("PORT"),
		Env:         os.Getenv("ENV"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		StorageProvider:     os.Getenv("STORAGE_PROVIDER"),
		ExportDir:           os.Getenv("EXPORT_DIR"),
		ExportBaseURL:       os.Getenv("EXPORT_BASE_URL"),
		ExportSweepSchedule: os.Getenv("EXPORT_SWEEP_SCHEDULE"),
		DefaultCurrency:     os.Getenv("DEFAULT_CURRENCY"),
		StoreName:           os.Getenv("STORE_NAME"),

		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSBucketName:      os.Getenv("AWS_BUCKET_NAME"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "local"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.ExportBaseURL == "" {
		cfg.ExportBaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.ExportSweepSchedule == "" {
		cfg.ExportSweepSchedule = defaultSweepSchedule
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "F"
	}

	cfg.ExportTTL = defaultExportTTL
	if raw := os.Getenv("EXPORT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			utils.LogWarn("⚠️ Invalid EXPORT_TTL, using default", map[string]interface{}{"value": raw, "default": defaultExportTTL.String()})
		} else {
			cfg.ExportTTL = ttl
		}
	}

	return cfg
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
