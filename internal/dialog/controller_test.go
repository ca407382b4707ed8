package dialog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ayakimenko/taskbell/internal/models"
	"github.com/ayakimenko/taskbell/internal/repository"
)

var errStore = errors.New("store unavailable")

type fakeTaskStore struct {
	tasks   map[int64]*models.Task
	nextID  int64
	failing bool
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*models.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	if f.failing {
		return errStore
	}
	f.nextID++
	task.ID = f.nextID
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskStore) CreateBatch(ctx context.Context, userID int64, bodies []string) error {
	if f.failing {
		return errStore
	}
	for _, body := range bodies {
		if err := f.Create(ctx, &models.Task{UserID: userID, Body: body}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTaskStore) UpdateBody(_ context.Context, id, userID int64, body string) error {
	if f.failing {
		return errStore
	}
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
	}
	task.Body = body
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id, userID int64) error {
	if f.failing {
		return errStore
	}
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
	}
	delete(f.tasks, id)
	return nil
}

type fakeAlertStore struct {
	alerts  []*models.Alert
	failing bool
}

func (f *fakeAlertStore) Create(_ context.Context, alert *models.Alert) error {
	if f.failing {
		return errStore
	}
	alert.ID = int64(len(f.alerts) + 1)
	f.alerts = append(f.alerts, alert)
	return nil
}

func newController() (*Controller, *fakeTaskStore, *fakeAlertStore) {
	tasks := newFakeTaskStore()
	alerts := &fakeAlertStore{}
	return New(NewStore(), tasks, alerts), tasks, alerts
}

const user = int64(100)

func mustHandle(t *testing.T, c *Controller, text string) string {
	t.Helper()
	reply, handled, err := c.HandleText(context.Background(), user, text)
	if err != nil {
		t.Fatalf("HandleText(%q): %v", text, err)
	}
	if !handled {
		t.Fatalf("HandleText(%q) not handled", text)
	}
	return reply
}

func TestAddTaskDialog(t *testing.T) {
	c, tasks, _ := newController()

	if _, err := c.StartAddTask(user); err != nil {
		t.Fatal(err)
	}
	reply := mustHandle(t, c, "buy milk")
	if reply != "Task added!" {
		t.Errorf("reply = %q", reply)
	}
	if c.Active(user) {
		t.Error("dialog should be back to idle")
	}
	if len(tasks.tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks.tasks))
	}
	for _, task := range tasks.tasks {
		if task.Body != "buy milk" || task.UserID != user || task.Completed {
			t.Errorf("unexpected task %+v", task)
		}
	}
}

func TestAddTaskEmptyTextReprompts(t *testing.T) {
	c, tasks, _ := newController()

	c.StartAddTask(user)
	mustHandle(t, c, "   ")
	if got := c.states.Get(user).State; got != AwaitingTaskText {
		t.Errorf("state = %v, want AwaitingTaskText", got)
	}
	if len(tasks.tasks) != 0 {
		t.Error("no task should have been created")
	}
}

func TestAddTaskStoreFailureKeepsDialogOpen(t *testing.T) {
	c, tasks, _ := newController()

	c.StartAddTask(user)
	tasks.failing = true
	reply, handled, err := c.HandleText(context.Background(), user, "buy milk")
	if !handled {
		t.Fatal("text should be handled")
	}
	if err == nil {
		t.Fatal("expected store error")
	}
	if reply != msgStoreFailure {
		t.Errorf("reply = %q", reply)
	}
	if got := c.states.Get(user).State; got != AwaitingTaskText {
		t.Fatalf("state = %v, want AwaitingTaskText", got)
	}

	// Retry succeeds once the store recovers.
	tasks.failing = false
	if reply := mustHandle(t, c, "buy milk"); reply != "Task added!" {
		t.Errorf("retry reply = %q", reply)
	}
	if len(tasks.tasks) != 1 {
		t.Errorf("got %d tasks, want 1", len(tasks.tasks))
	}
}

func TestBulkAdd(t *testing.T) {
	c, tasks, _ := newController()

	mustHandle(t, c, "buy milk, walk dog")
	if len(tasks.tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks.tasks))
	}
	bodies := map[string]bool{}
	for _, task := range tasks.tasks {
		if task.Completed {
			t.Errorf("task %q created completed", task.Body)
		}
		bodies[task.Body] = true
	}
	if !bodies["buy milk"] || !bodies["walk dog"] {
		t.Errorf("unexpected bodies %v", bodies)
	}
}

func TestBulkAddDropsEmptySegments(t *testing.T) {
	c, tasks, _ := newController()

	mustHandle(t, c, " , buy milk ,, walk dog , ")
	if len(tasks.tasks) != 2 {
		t.Errorf("got %d tasks, want 2 (empty segments dropped)", len(tasks.tasks))
	}
}

func TestBulkAddAllSegmentsEmpty(t *testing.T) {
	c, tasks, _ := newController()

	reply := mustHandle(t, c, " ,, , ")
	if len(tasks.tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(tasks.tasks))
	}
	if reply != "I could not find any tasks in that message." {
		t.Errorf("reply = %q", reply)
	}
}

func TestAddAlertFlow(t *testing.T) {
	c, _, alerts := newController()

	if _, err := c.StartAddAlert(user); err != nil {
		t.Fatal(err)
	}
	mustHandle(t, c, "meeting")
	if got := c.states.Get(user).State; got != AwaitingAlertTime {
		t.Fatalf("state = %v, want AwaitingAlertTime", got)
	}

	// A bad time re-prompts without losing the collected body.
	mustHandle(t, c, "25:99")
	if got := c.states.Get(user).State; got != AwaitingAlertTime {
		t.Fatalf("state after bad time = %v, want AwaitingAlertTime", got)
	}

	reply := mustHandle(t, c, "14:00")
	if reply != "Alert set for 14:00!" {
		t.Errorf("reply = %q", reply)
	}
	if c.Active(user) {
		t.Error("dialog should be back to idle")
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts.alerts))
	}
	alert := alerts.alerts[0]
	if alert.Body != "meeting" || alert.TriggerTime.String() != "14:00" || alert.Completed {
		t.Errorf("unexpected alert %+v", alert)
	}
}

func TestEditDialog(t *testing.T) {
	c, tasks, _ := newController()
	tasks.Create(context.Background(), &models.Task{UserID: user, Body: "old text"})

	if _, err := c.StartEdit(user, 1); err != nil {
		t.Fatal(err)
	}
	if reply := mustHandle(t, c, "new text"); reply != "Task updated!" {
		t.Errorf("reply = %q", reply)
	}
	if tasks.tasks[1].Body != "new text" {
		t.Errorf("body = %q", tasks.tasks[1].Body)
	}
	if c.Active(user) {
		t.Error("dialog should be back to idle")
	}
}

func TestEditVanishedTargetResetsDialog(t *testing.T) {
	c, _, _ := newController()

	c.StartEdit(user, 7)
	if reply := mustHandle(t, c, "new text"); reply != "That task no longer exists." {
		t.Errorf("reply = %q", reply)
	}
	if c.Active(user) {
		t.Error("dialog should be reset after a vanished target")
	}
}

func TestDeleteConfirmationNo(t *testing.T) {
	c, tasks, _ := newController()
	for i := 0; i < 7; i++ {
		tasks.Create(context.Background(), &models.Task{UserID: user, Body: fmt.Sprintf("task %d", i+1)})
	}

	c.StartDelete(user, 7)
	if reply := mustHandle(t, c, "no"); reply != "Task deletion cancelled." {
		t.Errorf("reply = %q", reply)
	}
	if _, ok := tasks.tasks[7]; !ok {
		t.Error("task 7 should still be present")
	}
	if c.Active(user) {
		t.Error("dialog should be back to idle")
	}
}

func TestDeleteConfirmationYes(t *testing.T) {
	c, tasks, _ := newController()
	tasks.Create(context.Background(), &models.Task{UserID: user, Body: "doomed"})

	c.StartDelete(user, 1)
	if reply := mustHandle(t, c, "Y"); reply != "Task deleted!" {
		t.Errorf("reply = %q", reply)
	}
	if len(tasks.tasks) != 0 {
		t.Error("task should have been deleted")
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	c, _, _ := newController()

	if _, err := c.StartAddTask(user); err != nil {
		t.Fatal(err)
	}
	reply, err := c.StartAddAlert(user)
	if !errors.Is(err, ErrDialogActive) {
		t.Fatalf("err = %v, want ErrDialogActive", err)
	}
	if reply != msgDialogActive {
		t.Errorf("reply = %q", reply)
	}
	if got := c.states.Get(user).State; got != AwaitingTaskText {
		t.Errorf("state = %v, original dialog must be untouched", got)
	}
}

func TestCancel(t *testing.T) {
	c, _, _ := newController()

	if got := c.Cancel(user); got != "Nothing to cancel." {
		t.Errorf("Cancel with no dialog = %q", got)
	}
	c.StartAddTask(user)
	if got := c.Cancel(user); got != "Cancelled." {
		t.Errorf("Cancel = %q", got)
	}
	if c.Active(user) {
		t.Error("dialog should be cleared")
	}
}

func TestIdleTextWithoutCommaIsNotHandled(t *testing.T) {
	c, tasks, _ := newController()

	_, handled, err := c.HandleText(context.Background(), user, "just a note")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("idle text without commas is not a dialog input")
	}
	if len(tasks.tasks) != 0 {
		t.Error("no task should have been created")
	}
}

func TestDialogsAreIndependentPerUser(t *testing.T) {
	c, tasks, _ := newController()
	other := int64(200)

	c.StartAddTask(user)
	mustHandleFor(t, c, other, "their milk, their dog")

	if got := c.states.Get(user).State; got != AwaitingTaskText {
		t.Errorf("user state = %v, must be unaffected by another user's input", got)
	}
	if len(tasks.tasks) != 2 {
		t.Errorf("got %d tasks, want 2", len(tasks.tasks))
	}
}

func mustHandleFor(t *testing.T, c *Controller, userID int64, text string) string {
	t.Helper()
	reply, handled, err := c.HandleText(context.Background(), userID, text)
	if err != nil || !handled {
		t.Fatalf("HandleText(%q) handled=%v err=%v", text, handled, err)
	}
	return reply
}
