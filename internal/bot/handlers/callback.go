package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/callback"
	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/render"
	"github.com/ayakimenko/taskbell/internal/repository"
)

// HandleCallbackQuery decodes a button press and executes its action.
// Malformed tokens are logged and dropped without touching any state.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	p, err := callback.Decode(cb.Data)
	if err != nil {
		log.Printf("Dropping callback from user %d: %v", cb.From.ID, err)
		return
	}
	if cb.Message == nil {
		return
	}

	switch p.Kind {
	case callback.KindTask:
		h.handleTaskCallback(ctx, cb, p)
	case callback.KindAlert:
		h.handleAlertCallback(ctx, cb, p)
	}
}

func (h *Handlers) handleTaskCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, p callback.Payload) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch p.Action {
	case callback.ActionShowList:
		h.refreshTaskList(ctx, userID, chatID, messageID)

	case callback.ActionOpenMenu:
		if _, err := h.repos.Task.GetByID(ctx, p.ID, userID); err != nil {
			h.reportMissing(chatID, messageID, err, "That task no longer exists.")
			return
		}
		text, keyboard := render.TaskMenu(p.ID)
		h.editMessage(chatID, messageID, text, &keyboard)

	case callback.ActionDone:
		if err := h.repos.Task.SetCompleted(ctx, p.ID, userID, true); err != nil {
			h.reportMissing(chatID, messageID, err, "That task no longer exists.")
			return
		}
		h.sendMessage(chatID, "Task marked as completed!")
		h.refreshTaskList(ctx, userID, chatID, messageID)

	case callback.ActionEdit:
		reply, err := h.dialogs.StartEdit(userID, p.ID)
		h.startDialog(chatID, reply, err)

	case callback.ActionDelete:
		reply, err := h.dialogs.StartDelete(userID, p.ID)
		h.startDialog(chatID, reply, err)

	default:
		log.Printf("Dropping callback with unknown task action %q from user %d", p.Action, userID)
	}
}

func (h *Handlers) handleAlertCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, p callback.Payload) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch p.Action {
	case callback.ActionShowList:
		h.refreshAlertList(ctx, userID, chatID, messageID)

	case callback.ActionOpenMenu:
		alert, err := h.repos.Alert.GetByID(ctx, p.ID, userID)
		if err != nil {
			h.reportMissing(chatID, messageID, err, "That alert no longer exists.")
			return
		}
		text, keyboard := render.AlertMenu(alert)
		h.editMessage(chatID, messageID, text, &keyboard)

	case callback.ActionDone:
		if err := h.repos.Alert.SetCompleted(ctx, p.ID, userID, true); err != nil {
			h.reportMissing(chatID, messageID, err, "That alert no longer exists.")
			return
		}
		h.sendMessage(chatID, "Alert marked as done!")
		h.refreshAlertList(ctx, userID, chatID, messageID)

	case callback.ActionSnooze:
		h.snoozeAlert(ctx, cb, p)

	case callback.ActionDelete:
		if err := h.repos.Alert.Delete(ctx, p.ID, userID); err != nil {
			h.reportMissing(chatID, messageID, err, "That alert no longer exists.")
			return
		}
		h.sendMessage(chatID, "Alert deleted!")
		h.refreshAlertList(ctx, userID, chatID, messageID)

	default:
		log.Printf("Dropping callback with unknown alert action %q from user %d", p.Action, userID)
	}
}

const snoozeMinutes = 10

// snoozeTarget is the re-armed trigger time: a short delay from the
// button press itself. Counting from the stored trigger would land in
// the past whenever the user presses snooze late, silently deferring
// the alert to tomorrow.
func snoozeTarget(now time.Time) clock.TimeOfDay {
	return clock.FromTime(now).Add(snoozeMinutes)
}

// snoozeAlert re-arms the alert a few minutes from now so it fires
// again today instead of tomorrow.
func (h *Handlers) snoozeAlert(ctx context.Context, cb *tgbotapi.CallbackQuery, p callback.Payload) {
	alert, err := h.repos.Alert.GetByID(ctx, p.ID, cb.From.ID)
	if err != nil {
		h.reportMissing(cb.Message.Chat.ID, cb.Message.MessageID, err, "That alert no longer exists.")
		return
	}

	snoozed := snoozeTarget(h.now())
	if err := h.repos.Alert.UpdateTriggerTime(ctx, alert.ID, cb.From.ID, snoozed); err != nil {
		h.reportMissing(cb.Message.Chat.ID, cb.Message.MessageID, err, "That alert no longer exists.")
		return
	}
	h.editMessage(cb.Message.Chat.ID, cb.Message.MessageID,
		"💤 Snoozed until "+snoozed.String()+": "+alert.Body, nil)
}

// reportMissing handles the vanished-target case in place; other store
// failures get the generic notice.
func (h *Handlers) reportMissing(chatID int64, messageID int, err error, missingText string) {
	if errors.Is(err, repository.ErrNotFound) {
		h.editMessage(chatID, messageID, missingText, nil)
		return
	}
	log.Printf("Callback store error: %v", err)
	h.sendMessage(chatID, "Something went wrong, please try again.")
}
