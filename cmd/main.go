package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mcq-grader/config"
	telegram "mcq-grader/internal/api"
	"mcq-grader/internal/container"
	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
	"mcq-grader/internal/httpserver"
	"mcq-grader/internal/infrastructure/storage"
	"mcq-grader/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Шаблон листа: из файла или стандартный
	layout := entity.DefaultLayout()
	if cfg.LayoutPath != "" {
		layout, err = storage.ReadLayout(cfg.LayoutPath)
		if err != nil {
			log.Fatalf("Failed to load layout: %v", err)
		}
	}

	// Модель загружается один раз и используется всеми запросами
	classifier := vision.NewGoCVClassifier(cfg.ModelPath)
	defer classifier.Close()
	if err := classifier.Ready(ctx); err != nil {
		log.Printf("Classifier is not ready: %v", err)
	}

	// Хранилище результатов: Postgres, если задан DATABASE_URL
	var store port.ResultStore = storage.NewMemoryResultStore()
	if cfg.DatabaseURL != "" {
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		pgStore, err := storage.NewPostgresResultStore(ctx, db)
		if err != nil {
			log.Fatalf("Failed to prepare result store: %v", err)
		}
		store = pgStore
		log.Println("Using Postgres result store")
	}

	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, classifier, vision.NewFileImageLoader(), vision.NewGoCVAnnotator(), store, layout)

	server := httpserver.New(appContainer.GradingService, cfg.MaxUploadMB)

	if cfg.TelegramToken == "" {
		log.Println("TELEGRAM_TOKEN is not set, running HTTP API only")
		if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	go func() {
		if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
