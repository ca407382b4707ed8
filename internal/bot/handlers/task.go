package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/render"
)

func (h *Handlers) handleAddTask(ctx context.Context, msg *tgbotapi.Message) {
	reply, err := h.dialogs.StartAddTask(msg.From.ID)
	h.startDialog(msg.Chat.ID, reply, err)
}

func (h *Handlers) handleTaskList(ctx context.Context, msg *tgbotapi.Message) {
	tasks, err := h.repos.Task.ListByUser(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to list tasks for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "Failed to load your tasks, please try again.")
		return
	}

	text, keyboard, hasOpen := render.TaskList(tasks)
	if !hasOpen {
		h.sendMessage(msg.Chat.ID, render.NoTasks)
		return
	}
	h.sendMessageWithKeyboard(msg.Chat.ID, text, keyboard)
}

// refreshTaskList redraws the task list in place of an existing message.
func (h *Handlers) refreshTaskList(ctx context.Context, userID, chatID int64, messageID int) {
	tasks, err := h.repos.Task.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to list tasks for user %d: %v", userID, err)
		return
	}

	text, keyboard, hasOpen := render.TaskList(tasks)
	if !hasOpen {
		h.editMessage(chatID, messageID, render.NoTasks, nil)
		return
	}
	h.editMessage(chatID, messageID, text, &keyboard)
}
