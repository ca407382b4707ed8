package handlers

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/render"
)

func (h *Handlers) handleAddAlert(ctx context.Context, msg *tgbotapi.Message) {
	reply, err := h.dialogs.StartAddAlert(msg.From.ID)
	h.startDialog(msg.Chat.ID, reply, err)
}

func (h *Handlers) handleAlertList(ctx context.Context, msg *tgbotapi.Message) {
	alerts, err := h.repos.Alert.ListByUser(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to list alerts for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "Failed to load your alerts, please try again.")
		return
	}

	text, keyboard, hasOpen := render.AlertList(alerts)
	if !hasOpen {
		h.sendMessage(msg.Chat.ID, render.NoAlerts)
		return
	}
	h.sendMessageWithKeyboard(msg.Chat.ID, text, keyboard)
}

// refreshAlertList redraws the alert list in place of an existing message.
func (h *Handlers) refreshAlertList(ctx context.Context, userID, chatID int64, messageID int) {
	alerts, err := h.repos.Alert.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to list alerts for user %d: %v", userID, err)
		return
	}

	text, keyboard, hasOpen := render.AlertList(alerts)
	if !hasOpen {
		h.editMessage(chatID, messageID, render.NoAlerts, nil)
		return
	}
	h.editMessage(chatID, messageID, text, &keyboard)
}

func (h *Handlers) handleSetAlarmTime(ctx context.Context, msg *tgbotapi.Message) {
	t, err := clock.Parse(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Please use the correct format HH:MM. For example, /set_alarm_time 09:30")
		return
	}

	if err := h.repos.UserSettings.Upsert(ctx, msg.From.ID, t); err != nil {
		log.Printf("Failed to set reminder time for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Your reminder time has been set.")
}
