package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	TelegramToken    string
	TelegramChat     string
	TelegramThreadID *int

	HTTPPort    string
	DataFile    string
	DataURL     string
	UsePostgres bool
	ReloadCron  string
	MaxUploadMB int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBHost:           envOrDefault("DB_HOST", "localhost"),
		DBPort:           envOrDefault("DB_PORT", "5432"),
		DBUser:           envOrDefault("DB_USERNAME", "postgres"),
		DBPassword:       envOrDefault("DB_PASSWORD", "postgres"),
		DBName:           envOrDefault("DB_DATABASE", "projectmap"),
		DBSSLMode:        envOrDefault("DB_SSLMODE", "disable"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChat:     os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramThreadID: nil,
		HTTPPort:         envOrDefault("HTTP_PORT", "3000"),
		DataFile:         envOrDefault("DATA_FILE", "data/projects.json"),
		DataURL:          os.Getenv("DATA_URL"),
		ReloadCron:       os.Getenv("DATA_REFRESH_CRON"),
	}

	threadID, err := envOrIntPtr("TELEGRAM_CHAT_THREAD_ID")
	if err != nil {
		return cfg, err
	}
	cfg.TelegramThreadID = threadID

	maxUpload, err := envOrInt("MAX_UPLOAD_MB", 20)
	if err != nil {
		return cfg, err
	}
	if maxUpload <= 0 {
		return cfg, fmt.Errorf("invalid MAX_UPLOAD_MB: must be positive, got %d", maxUpload)
	}
	cfg.MaxUploadMB = maxUpload

	usePostgres, err := envOrBool("DATA_SOURCE_POSTGRES", false)
	if err != nil {
		return cfg, err
	}
	cfg.UsePostgres = usePostgres

	if (cfg.TelegramToken == "") != (cfg.TelegramChat == "") {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	if cfg.UsePostgres && (cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "") {
		return cfg, errors.New("missing database configuration")
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChat != ""
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envOrBool(key string, fallback bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envOrIntPtr(key string) (*int, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}
