// Package render builds the list views and inline keyboards shown to
// users. Everything here is a pure function of the stored records.
package render

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayakimenko/taskbell/internal/callback"
	"github.com/ayakimenko/taskbell/internal/models"
)

const buttonsPerRow = 3

// Empty-state messages chosen by callers when hasOpen is false.
const (
	NoTasks  = "You have no tasks!"
	NoAlerts = "You have no alerts!"
)

// TaskList renders the "Your Tasks" view: the summary text with a
// completion marker and 1-based index per item, one open-menu button per
// incomplete task grouped into rows of three, and whether the user has
// any incomplete task at all.
func TaskList(tasks []*models.Task) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	var sb strings.Builder
	sb.WriteString("Your Tasks:\n")

	var buttons []tgbotapi.InlineKeyboardButton
	for i, t := range tasks {
		status := "❌"
		if t.Completed {
			status = "✅"
		}
		fmt.Fprintf(&sb, "%s Task %d: %s\n", status, i+1, t.Body)

		if !t.Completed {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Task %d", i+1),
				token(callback.KindTask, t.ID, callback.ActionOpenMenu, ""),
			))
		}
	}

	return sb.String(), groupRows(buttons), len(buttons) > 0
}

// AlertList renders the "Your Alerts" view in the same shape as TaskList.
func AlertList(alerts []*models.Alert) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	var sb strings.Builder
	sb.WriteString("Your Alerts:\n")

	var buttons []tgbotapi.InlineKeyboardButton
	for i, a := range alerts {
		status := "⏰"
		if a.Completed {
			status = "✅"
		}
		fmt.Fprintf(&sb, "%s Alert %d: %s at %s\n", status, i+1, a.Body, a.TriggerTime)

		if !a.Completed {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Alert %d", i+1),
				token(callback.KindAlert, a.ID, callback.ActionOpenMenu, minutesArg(a)),
			))
		}
	}

	return sb.String(), groupRows(buttons), len(buttons) > 0
}

// TaskMenu is the per-task action menu: done / edit / delete, plus a
// back row returning to the list.
func TaskMenu(taskID int64) (string, tgbotapi.InlineKeyboardMarkup) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅", token(callback.KindTask, taskID, callback.ActionDone, "")),
			tgbotapi.NewInlineKeyboardButtonData("✏️", token(callback.KindTask, taskID, callback.ActionEdit, "")),
			tgbotapi.NewInlineKeyboardButtonData("🗑", token(callback.KindTask, taskID, callback.ActionDelete, "")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", token(callback.KindTask, taskID, callback.ActionShowList, "")),
		),
	)
	return "Select an action for the task:", keyboard
}

// AlertMenu is the per-alert action menu.
func AlertMenu(alert *models.Alert) (string, tgbotapi.InlineKeyboardMarkup) {
	arg := minutesArg(alert)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅", token(callback.KindAlert, alert.ID, callback.ActionDone, arg)),
			tgbotapi.NewInlineKeyboardButtonData("💤", token(callback.KindAlert, alert.ID, callback.ActionSnooze, arg)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", token(callback.KindAlert, alert.ID, callback.ActionDelete, arg)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", token(callback.KindAlert, alert.ID, callback.ActionShowList, "")),
		),
	)
	return "Select an action for the alert:", keyboard
}

// AlertActions is the done / snooze keyboard attached to a fired alert
// notification.
func AlertActions(alert *models.Alert) tgbotapi.InlineKeyboardMarkup {
	arg := minutesArg(alert)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", token(callback.KindAlert, alert.ID, callback.ActionDone, arg)),
			tgbotapi.NewInlineKeyboardButtonData("💤 Snooze 10m", token(callback.KindAlert, alert.ID, callback.ActionSnooze, arg)),
		),
	)
}

// minutesArg is the alert's trigger time in its delimiter-free wire form.
func minutesArg(alert *models.Alert) string {
	return strconv.Itoa(alert.TriggerTime.Minutes())
}

// token encodes a callback payload. Inputs here are package constants
// and numeric args, so a rejected payload is a programming error, not a
// runtime condition: panic rather than hand the codec's guarantee back
// to the caller as an empty token.
func token(kind string, id int64, action, arg string) string {
	data, err := callback.Payload{Kind: kind, ID: id, Action: action, Arg: arg}.Encode()
	if err != nil {
		panic(fmt.Sprintf("render: unencodable callback payload %s/%d/%s/%s: %v", kind, id, action, arg, err))
	}
	return data
}

// groupRows splits buttons into fixed-width keyboard rows in list order.
// Every button lands in exactly one row.
func groupRows(buttons []tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(buttons)+buttonsPerRow-1)/buttonsPerRow)
	for len(buttons) > buttonsPerRow {
		rows = append(rows, buttons[:buttonsPerRow])
		buttons = buttons[buttonsPerRow:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
