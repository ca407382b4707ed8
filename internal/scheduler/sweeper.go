package scheduler

import (
	"context"
	"log"
	"time"
)

type TaskPurger interface {
	DeleteAllCompleted(ctx context.Context) (int64, error)
}

// Sweeper purges completed tasks once per day, for all users at once.
// Repeated runs with nothing newly completed are no-ops.
type Sweeper struct {
	tasks    TaskPurger
	interval time.Duration
}

func NewSweeper(tasks TaskPurger) *Sweeper {
	return &Sweeper{tasks: tasks, interval: 24 * time.Hour}
}

func (s *Sweeper) Start(ctx context.Context) {
	log.Println("Retention sweeper started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First sweep runs at startup, then once per interval.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Retention sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.tasks.DeleteAllCompleted(ctx)
	if err != nil {
		log.Printf("Failed to purge completed tasks: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Purged %d completed tasks", n)
	}
}
