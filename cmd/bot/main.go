package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/ai"
	"github.com/ayakimenko/taskbell/internal/bot"
	"github.com/ayakimenko/taskbell/internal/config"
	"github.com/ayakimenko/taskbell/internal/database"
	"github.com/ayakimenko/taskbell/internal/repository"
	"github.com/ayakimenko/taskbell/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// AI capture is optional
	var aiClient *ai.Client
	if cfg.OpenAIKey != "" {
		aiClient = ai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		log.Printf("AI client initialized (model: %s)", cfg.OpenAIModel)
	} else {
		log.Println("AI client not configured, natural language capture disabled")
	}

	// Separate API client for the scheduler, as the bot owns the polling one
	tgAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	settingsRepo := repository.NewUserSettingsRepository(db)

	sched := scheduler.New(tgAPI, settingsRepo, taskRepo, alertRepo)
	go sched.Start(ctx)

	sweeper := scheduler.NewSweeper(taskRepo)
	go sweeper.Start(ctx)

	b, err := bot.New(cfg.BotToken, db, aiClient)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
