package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/models"
)

// handleCapture turns a free-text note into a task or a timed alert via
// the AI client. Notes the model cannot place become plain tasks.
func (h *Handlers) handleCapture(ctx context.Context, msg *tgbotapi.Message) {
	item, err := h.ai.CaptureItem(ctx, msg.Text)
	if err != nil {
		log.Printf("Failed to capture note from user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "I could not make a task out of that. Try /add_task, or 'task 1, task 2'.")
		return
	}

	if item.Kind == "alert" {
		if t, err := clock.Parse(item.Time); err == nil {
			alert := &models.Alert{UserID: msg.From.ID, Body: item.Body, TriggerTime: t}
			if err := h.repos.Alert.Create(ctx, alert); err != nil {
				log.Printf("Failed to create captured alert for user %d: %v", msg.From.ID, err)
				h.sendMessage(msg.Chat.ID, "Something went wrong, please try again.")
				return
			}
			h.sendMessage(msg.Chat.ID, "⏰ Alert set for "+t.String()+": "+item.Body)
			return
		}
		// Bad time from the model: keep the note as a plain task.
	}

	task := &models.Task{UserID: msg.From.ID, Body: item.Body}
	if err := h.repos.Task.Create(ctx, task); err != nil {
		log.Printf("Failed to create captured task for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Task added: "+item.Body)
}
