package scheduler

import (
	"context"
	"testing"

	"github.com/ayakimenko/taskbell/internal/models"
)

type fakePurger struct {
	tasks []*models.Task
	runs  int
}

func (f *fakePurger) DeleteAllCompleted(context.Context) (int64, error) {
	f.runs++
	var kept []*models.Task
	var removed int64
	for _, t := range f.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return removed, nil
}

func TestSweepRemovesOnlyCompletedTasks(t *testing.T) {
	purger := &fakePurger{tasks: []*models.Task{
		{ID: 1, UserID: 1, Body: "a", Completed: true},
		{ID: 2, UserID: 1, Body: "b"},
		{ID: 3, UserID: 2, Body: "c", Completed: true},
		{ID: 4, UserID: 2, Body: "d"},
		{ID: 5, UserID: 3, Body: "e", Completed: true},
	}}
	s := NewSweeper(purger)

	s.sweep(context.Background())

	if len(purger.tasks) != 2 {
		t.Fatalf("%d tasks left, want the 2 incomplete ones", len(purger.tasks))
	}
	for _, task := range purger.tasks {
		if task.Completed {
			t.Errorf("completed task %d survived the sweep", task.ID)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	purger := &fakePurger{tasks: []*models.Task{
		{ID: 1, UserID: 1, Body: "a", Completed: true},
		{ID: 2, UserID: 1, Body: "b"},
	}}
	s := NewSweeper(purger)

	s.sweep(context.Background())
	s.sweep(context.Background())

	if purger.runs != 2 {
		t.Fatalf("purger ran %d times, want 2", purger.runs)
	}
	if len(purger.tasks) != 1 {
		t.Errorf("%d tasks left, repeat sweeps must not remove incomplete tasks", len(purger.tasks))
	}
}
