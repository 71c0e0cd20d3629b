package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	ModelPath     string
	LayoutPath    string
	HTTPAddr      string
	DatabaseURL   string
	MaxUploadMB   int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		ModelPath:     getenvDefault("MODEL_PATH", "cnn_model.onnx"),
		LayoutPath:    strings.TrimSpace(os.Getenv("LAYOUT_PATH")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MaxUploadMB:   32,
	}

	// PORT задаёт платформа хостинга
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.HTTPAddr = ":" + p
	}

	if v := strings.TrimSpace(os.Getenv("MAX_UPLOAD_MB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", v)
		}
		cfg.MaxUploadMB = n
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
