package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ayakimenko/taskbell/internal/models"
	"github.com/ayakimenko/taskbell/internal/render"
)

// Sender is the outbound side of the Telegram API the scheduler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type SettingsStore interface {
	ListAll(ctx context.Context) ([]*models.UserSettings, error)
}

type TaskStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Task, error)
}

type AlertStore interface {
	ListAllIncomplete(ctx context.Context) ([]*models.Alert, error)
}

const dispatchLimit = 8

// Scheduler wakes once per minute and fires whatever has just come due:
// the per-user daily task digest and every incomplete alert whose
// trigger time the clock has entered.
type Scheduler struct {
	api           Sender
	settingsRepo  SettingsStore
	taskRepo      TaskStore
	alertRepo     AlertStore
	checkInterval time.Duration
	now           func() time.Time
}

func New(api Sender, settingsRepo SettingsStore, taskRepo TaskStore, alertRepo AlertStore) *Scheduler {
	return &Scheduler{
		api:           api,
		settingsRepo:  settingsRepo,
		taskRepo:      taskRepo,
		alertRepo:     alertRepo,
		checkInterval: 1 * time.Minute,
		now:           time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check runs one tick. Dispatch is gated strictly on the half-open
// window [trigger, trigger+interval): under regular ticking each due
// item fires exactly once per day. A tick that starts late (slow I/O on
// the previous one, process stall) can miss a window entirely; that is
// accepted — the guarantee is at most once per day, within one interval
// of the due time.
func (s *Scheduler) check(ctx context.Context) {
	now := s.now()
	s.checkDailyReminders(ctx, now)
	s.checkAlerts(ctx, now)
}

func (s *Scheduler) checkDailyReminders(ctx context.Context, now time.Time) {
	settings, err := s.settingsRepo.ListAll(ctx)
	if err != nil {
		log.Printf("Failed to list user settings: %v", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchLimit)
	for _, st := range settings {
		if !st.RemindTime.InWindow(now, s.checkInterval) {
			continue
		}
		st := st
		g.Go(func() error {
			if err := s.sendDailyDigest(gctx, st.UserID); err != nil {
				// One user's failure must not abort the tick.
				log.Printf("Failed to send daily digest to user %d: %v", st.UserID, err)
			}
			return nil
		})
	}
	g.Wait()
}

func (s *Scheduler) sendDailyDigest(ctx context.Context, userID int64) error {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Here is your daily task reminder:\n")
	idx := 0
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		idx++
		fmt.Fprintf(&sb, "Task %d: %s\n", idx, t.Body)
	}
	if idx == 0 {
		// Nothing open, nothing to nag about.
		return nil
	}

	if _, err := s.api.Send(tgbotapi.NewMessage(userID, sb.String())); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func (s *Scheduler) checkAlerts(ctx context.Context, now time.Time) {
	alerts, err := s.alertRepo.ListAllIncomplete(ctx)
	if err != nil {
		log.Printf("Failed to list incomplete alerts: %v", err)
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(dispatchLimit)
	for _, a := range alerts {
		if !a.TriggerTime.InWindow(now, s.checkInterval) {
			continue
		}
		a := a
		g.Go(func() error {
			msg := tgbotapi.NewMessage(a.UserID, "⏰ Alert: "+a.Body)
			msg.ReplyMarkup = render.AlertActions(a)
			if _, err := s.api.Send(msg); err != nil {
				log.Printf("Failed to send alert %d to user %d: %v", a.ID, a.UserID, err)
			}
			return nil
		})
	}
	g.Wait()
}
