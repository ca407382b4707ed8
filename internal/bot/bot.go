package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/ai"
	"github.com/ayakimenko/taskbell/internal/bot/handlers"
	"github.com/ayakimenko/taskbell/internal/database"
	"github.com/ayakimenko/taskbell/internal/dialog"
	"github.com/ayakimenko/taskbell/internal/repository"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(token string, db *database.DB, aiClient *ai.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	repos := &handlers.Repositories{
		Task:         repository.NewTaskRepository(db),
		Alert:        repository.NewAlertRepository(db),
		UserSettings: repository.NewUserSettingsRepository(db),
	}
	dialogs := dialog.New(dialog.NewStore(), repos.Task, repos.Alert)

	return &Bot{
		api:      api,
		handlers: handlers.New(api, repos, dialogs, aiClient),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.IsCommand():
		b.handlers.HandleCommand(ctx, update.Message)
	default:
		b.handlers.HandleMessage(ctx, update.Message)
	}
}
