package render

import (
	"strings"
	"testing"

	"github.com/ayakimenko/taskbell/internal/callback"
	"github.com/ayakimenko/taskbell/internal/clock"
	"github.com/ayakimenko/taskbell/internal/models"
)

func openTasks(n int) []*models.Task {
	tasks := make([]*models.Task, n)
	for i := range tasks {
		tasks[i] = &models.Task{ID: int64(i + 1), UserID: 100, Body: "task"}
	}
	return tasks
}

func TestTaskListEmpty(t *testing.T) {
	_, keyboard, hasOpen := TaskList(nil)
	if hasOpen {
		t.Error("empty list must report no open tasks")
	}
	if len(keyboard.InlineKeyboard) != 0 {
		t.Error("empty list must have no buttons")
	}
}

func TestTaskListAllCompleted(t *testing.T) {
	tasks := []*models.Task{
		{ID: 1, UserID: 100, Body: "done thing", Completed: true},
	}
	_, keyboard, hasOpen := TaskList(tasks)
	if hasOpen {
		t.Error("list with only completed tasks must report no open tasks")
	}
	if len(keyboard.InlineKeyboard) != 0 {
		t.Error("completed tasks must get no buttons")
	}
}

func TestTaskListMarkersAndIndices(t *testing.T) {
	tasks := []*models.Task{
		{ID: 10, UserID: 100, Body: "pay rent", Completed: true},
		{ID: 11, UserID: 100, Body: "buy milk"},
	}
	text, keyboard, hasOpen := TaskList(tasks)
	if !hasOpen {
		t.Fatal("expected an open task")
	}
	if !strings.Contains(text, "✅ Task 1: pay rent") {
		t.Errorf("missing completed marker line in %q", text)
	}
	if !strings.Contains(text, "❌ Task 2: buy milk") {
		t.Errorf("missing open marker line in %q", text)
	}

	if len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 1 {
		t.Fatalf("want exactly one button, got %v", keyboard.InlineKeyboard)
	}
	button := keyboard.InlineKeyboard[0][0]
	if button.Text != "Task 2" {
		t.Errorf("button text = %q, display index follows list position", button.Text)
	}
	p, err := callback.Decode(*button.CallbackData)
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != callback.KindTask || p.ID != 11 || p.Action != callback.ActionOpenMenu {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestTaskListRowGrouping(t *testing.T) {
	_, keyboard, _ := TaskList(openTasks(7))

	want := []int{3, 3, 1}
	if len(keyboard.InlineKeyboard) != len(want) {
		t.Fatalf("got %d rows, want %d", len(keyboard.InlineKeyboard), len(want))
	}
	seen := 0
	for i, row := range keyboard.InlineKeyboard {
		if len(row) != want[i] {
			t.Errorf("row %d has %d buttons, want %d", i, len(row), want[i])
		}
		for _, button := range row {
			seen++
			p, err := callback.Decode(*button.CallbackData)
			if err != nil {
				t.Fatal(err)
			}
			if p.ID != int64(seen) {
				t.Errorf("button %d targets task %d, order must be preserved", seen, p.ID)
			}
		}
	}
	if seen != 7 {
		t.Errorf("%d buttons placed, every task needs exactly one", seen)
	}
}

func TestTaskListExactRows(t *testing.T) {
	_, keyboard, _ := TaskList(openTasks(6))
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(keyboard.InlineKeyboard))
	}
	for i, row := range keyboard.InlineKeyboard {
		if len(row) != 3 {
			t.Errorf("row %d has %d buttons, want 3", i, len(row))
		}
	}
}

func TestTaskMenu(t *testing.T) {
	text, keyboard := TaskMenu(5)
	if text != "Select an action for the task:" {
		t.Errorf("text = %q", text)
	}
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(keyboard.InlineKeyboard))
	}

	wantActions := []string{callback.ActionDone, callback.ActionEdit, callback.ActionDelete}
	row := keyboard.InlineKeyboard[0]
	if len(row) != len(wantActions) {
		t.Fatalf("first row has %d buttons, want %d", len(row), len(wantActions))
	}
	for i, button := range row {
		p, err := callback.Decode(*button.CallbackData)
		if err != nil {
			t.Fatal(err)
		}
		if p.Action != wantActions[i] || p.ID != 5 || p.Kind != callback.KindTask {
			t.Errorf("button %d payload = %+v, want action %s", i, p, wantActions[i])
		}
	}

	back, err := callback.Decode(*keyboard.InlineKeyboard[1][0].CallbackData)
	if err != nil {
		t.Fatal(err)
	}
	if back.Action != callback.ActionShowList {
		t.Errorf("back button action = %q", back.Action)
	}
}

func TestAlertListShowsTimeAndCarriesMinutes(t *testing.T) {
	at, _ := clock.Parse("09:30")
	alerts := []*models.Alert{
		{ID: 3, UserID: 100, Body: "standup", TriggerTime: at},
	}
	text, keyboard, hasOpen := AlertList(alerts)
	if !hasOpen {
		t.Fatal("expected an open alert")
	}
	if !strings.Contains(text, "⏰ Alert 1: standup at 09:30") {
		t.Errorf("unexpected text %q", text)
	}

	p, err := callback.Decode(*keyboard.InlineKeyboard[0][0].CallbackData)
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != callback.KindAlert || p.ID != 3 || p.Arg != "570" {
		t.Errorf("payload = %+v, arg must be the trigger time in minutes", p)
	}
}

func TestTokenPanicsOnUnencodablePayload(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("a separator-bearing arg must panic, not yield an empty token")
		}
	}()
	token(callback.KindAlert, 1, callback.ActionSnooze, "09:30")
}

func TestAlertActionsOfferDoneAndSnooze(t *testing.T) {
	at, _ := clock.Parse("14:00")
	keyboard := AlertActions(&models.Alert{ID: 9, UserID: 100, Body: "meeting", TriggerTime: at})

	if len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 2 {
		t.Fatalf("want one row of two buttons, got %v", keyboard.InlineKeyboard)
	}
	wantActions := []string{callback.ActionDone, callback.ActionSnooze}
	for i, button := range keyboard.InlineKeyboard[0] {
		p, err := callback.Decode(*button.CallbackData)
		if err != nil {
			t.Fatal(err)
		}
		if p.Action != wantActions[i] || p.ID != 9 || p.Arg != "840" {
			t.Errorf("button %d payload = %+v", i, p)
		}
	}
}
