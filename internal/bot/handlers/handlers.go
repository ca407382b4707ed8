package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/ai"
	"github.com/ayakimenko/taskbell/internal/dialog"
	"github.com/ayakimenko/taskbell/internal/repository"
)

type Repositories struct {
	Task         *repository.TaskRepository
	Alert        *repository.AlertRepository
	UserSettings *repository.UserSettingsRepository
}

type Handlers struct {
	api     *tgbotapi.BotAPI
	repos   *Repositories
	dialogs *dialog.Controller
	ai      *ai.Client
	now     func() time.Time
}

func New(api *tgbotapi.BotAPI, repos *Repositories, dialogs *dialog.Controller, aiClient *ai.Client) *Handlers {
	return &Handlers{
		api:     api,
		repos:   repos,
		dialogs: dialogs,
		ai:      aiClient,
		now:     time.Now,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "add_task":
		h.handleAddTask(ctx, msg)
	case "tasks":
		h.handleTaskList(ctx, msg)
	case "add_alert":
		h.handleAddAlert(ctx, msg)
	case "alerts":
		h.handleAlertList(ctx, msg)
	case "set_alarm_time":
		h.handleSetAlarmTime(ctx, msg)
	case "cancel":
		h.handleCancel(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, use /help to see what I can do.")
	}
}

// HandleMessage routes plain text: into the active dialog first, then
// the comma-separated bulk add, then natural-language capture when the
// AI client is configured.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	reply, handled, err := h.dialogs.HandleText(ctx, msg.From.ID, msg.Text)
	if err != nil {
		log.Printf("Dialog error for user %d: %v", msg.From.ID, err)
	}
	if handled {
		h.sendMessage(msg.Chat.ID, reply)
		return
	}

	if h.ai != nil {
		h.handleCapture(ctx, msg)
		return
	}
	h.sendMessage(msg.Chat.ID, "Add tasks by sending me a message in the format 'task 1, task 2, task 3', or use /help.")
}

func (h *Handlers) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, h.dialogs.Cancel(msg.From.ID))
}

// startDialog sends the dialog's opening prompt, or the busy notice when
// another dialog is already active.
func (h *Handlers) startDialog(chatID int64, reply string, err error) {
	if err != nil && !errors.Is(err, dialog.ErrDialogActive) {
		log.Printf("Failed to start dialog: %v", err)
	}
	h.sendMessage(chatID, reply)
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	var edit tgbotapi.Chattable
	if keyboard != nil {
		e := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
		edit = e
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID,
		"Welcome! Add tasks by sending me a message in the format 'task 1, task 2, task 3'.")
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, `Here is what I can do:

/add_task - add a single task
/tasks - show your tasks
/add_alert - set a timed alert
/alerts - show your alerts
/set_alarm_time HH:MM - set your daily reminder time
/cancel - cancel the current action

You can also send 'task 1, task 2, task 3' to add several tasks at once.`)
}
