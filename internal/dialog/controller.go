package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/models"
	"github.com/ayakimenko/taskbell/internal/repository"
)

// ErrDialogActive is returned when a dialog start is rejected because
// the user already has one in progress.
var ErrDialogActive = errors.New("another dialog is already active")

// TaskStore is the slice of task persistence the dialogs need.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	CreateBatch(ctx context.Context, userID int64, bodies []string) error
	UpdateBody(ctx context.Context, id, userID int64, body string) error
	Delete(ctx context.Context, id, userID int64) error
}

// AlertStore is the slice of alert persistence the dialogs need.
type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
}

// User-facing replies shared across transitions.
const (
	msgStoreFailure = "Something went wrong, please try again."
	msgDialogActive = "Please finish or cancel your current action first (/cancel)."
)

// Controller drives the multi-step dialogs. Every mutating transition
// ends back in Idle on success, cancellation, or a vanished target;
// validation and store failures keep the dialog open so the user can
// retry without losing their place.
type Controller struct {
	states *Store
	tasks  TaskStore
	alerts AlertStore
}

func New(states *Store, tasks TaskStore, alerts AlertStore) *Controller {
	return &Controller{states: states, tasks: tasks, alerts: alerts}
}

// transitions maps each awaiting state to its text handler: the explicit
// state × input → next state × effect table. Idle text (bulk add) is
// handled separately in HandleText.
var transitions = map[State]func(*Controller, context.Context, int64, Conversation, string) (string, error){
	AwaitingTaskText:           (*Controller).finishAddTask,
	AwaitingAlertText:          (*Controller).collectAlertBody,
	AwaitingAlertTime:          (*Controller).finishAddAlert,
	AwaitingEditText:           (*Controller).finishEdit,
	AwaitingDeleteConfirmation: (*Controller).finishDelete,
}

// Active reports whether the user has a dialog in progress.
func (c *Controller) Active(userID int64) bool {
	return c.states.Get(userID).State != Idle
}

// start enters a dialog, enforcing the one-active-dialog-per-user rule.
func (c *Controller) start(userID int64, conv Conversation, reply string) (string, error) {
	if c.Active(userID) {
		return msgDialogActive, ErrDialogActive
	}
	c.states.Put(userID, conv)
	return reply, nil
}

func (c *Controller) StartAddTask(userID int64) (string, error) {
	return c.start(userID, Conversation{State: AwaitingTaskText}, "Please send me the task.")
}

func (c *Controller) StartAddAlert(userID int64) (string, error) {
	return c.start(userID, Conversation{State: AwaitingAlertText}, "Please send me the alert text.")
}

func (c *Controller) StartEdit(userID, taskID int64) (string, error) {
	return c.start(userID, Conversation{State: AwaitingEditText, TaskID: taskID},
		"Please send the new task text.")
}

func (c *Controller) StartDelete(userID, taskID int64) (string, error) {
	return c.start(userID, Conversation{State: AwaitingDeleteConfirmation, TaskID: taskID},
		"Are you sure you want to delete this task? Yes/No")
}

// Cancel clears any active dialog.
func (c *Controller) Cancel(userID int64) string {
	if !c.Active(userID) {
		return "Nothing to cancel."
	}
	c.states.Clear(userID)
	return "Cancelled."
}

// HandleText feeds a plain message into the active dialog, or treats it
// as a comma-separated bulk add when no dialog is active. handled is
// false when the text belongs to neither.
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) (reply string, handled bool, err error) {
	conv := c.states.Get(userID)
	if fn, ok := transitions[conv.State]; ok {
		reply, err = fn(c, ctx, userID, conv, text)
		return reply, true, err
	}
	if strings.Contains(text, ",") {
		reply, err = c.bulkAdd(ctx, userID, text)
		return reply, true, err
	}
	return "", false, nil
}

func (c *Controller) finishAddTask(ctx context.Context, userID int64, _ Conversation, text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "The task cannot be empty. Please send me the task.", nil
	}
	task := &models.Task{UserID: userID, Body: body}
	if err := c.tasks.Create(ctx, task); err != nil {
		// Dialog stays open so the user can simply resend.
		return msgStoreFailure, fmt.Errorf("create task: %w", err)
	}
	c.states.Clear(userID)
	return "Task added!", nil
}

// bulkAdd splits comma-separated text into tasks. Segments that are
// empty after trimming are dropped.
func (c *Controller) bulkAdd(ctx context.Context, userID int64, text string) (string, error) {
	var bodies []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			bodies = append(bodies, part)
		}
	}
	if len(bodies) == 0 {
		return "I could not find any tasks in that message.", nil
	}
	if err := c.tasks.CreateBatch(ctx, userID, bodies); err != nil {
		return msgStoreFailure, fmt.Errorf("create %d tasks: %w", len(bodies), err)
	}
	if len(bodies) == 1 {
		return "Task added!", nil
	}
	return fmt.Sprintf("Tasks added! (%d)", len(bodies)), nil
}

func (c *Controller) collectAlertBody(ctx context.Context, userID int64, conv Conversation, text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "The alert cannot be empty. Please send me the alert text.", nil
	}
	conv.State = AwaitingAlertTime
	conv.AlertBody = body
	c.states.Put(userID, conv)
	return "When should I remind you? Use HH:MM, for example 09:30.", nil
}

func (c *Controller) finishAddAlert(ctx context.Context, userID int64, conv Conversation, text string) (string, error) {
	t, err := clock.Parse(strings.TrimSpace(text))
	if err != nil {
		// Format errors re-prompt; the collected body is kept.
		return "Please use the correct format HH:MM. For example, 09:30.", nil
	}
	alert := &models.Alert{UserID: userID, Body: conv.AlertBody, TriggerTime: t}
	if err := c.alerts.Create(ctx, alert); err != nil {
		return msgStoreFailure, fmt.Errorf("create alert: %w", err)
	}
	c.states.Clear(userID)
	return fmt.Sprintf("Alert set for %s!", t), nil
}

func (c *Controller) finishEdit(ctx context.Context, userID int64, conv Conversation, text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "The task cannot be empty. Please send the new task text.", nil
	}
	if err := c.tasks.UpdateBody(ctx, conv.TaskID, userID, body); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.states.Clear(userID)
			return "That task no longer exists.", nil
		}
		return msgStoreFailure, fmt.Errorf("update task %d: %w", conv.TaskID, err)
	}
	c.states.Clear(userID)
	return "Task updated!", nil
}

func (c *Controller) finishDelete(ctx context.Context, userID int64, conv Conversation, text string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y":
		if err := c.tasks.Delete(ctx, conv.TaskID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.states.Clear(userID)
				return "That task no longer exists.", nil
			}
			return msgStoreFailure, fmt.Errorf("delete task %d: %w", conv.TaskID, err)
		}
		c.states.Clear(userID)
		return "Task deleted!", nil
	default:
		// Any other reply cancels; both outcomes clear the dialog.
		c.states.Clear(userID)
		return "Task deletion cancelled.", nil
	}
}
